package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kchat-ai/kchat/app/core"
	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/pkg/safe"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "start api with the given config file")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "knowledge chat service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	startScheduler(app)
	serve(app)

	return nil
}

// startScheduler runs the background jobs: the ingest sweeper picks up
// PENDING documents, the audit cleaner enforces the log retention window.
func startScheduler(app *core.Core) {
	c := cron.New()

	// cron does not recover panics on its own; a crashing job must not take
	// the scheduler down.
	c.AddFunc("@every 1m", func() {
		safe.Run(func() {
			v1.NewIngestLogic(context.Background(), app).SweepPending()
		})
	})

	c.AddFunc("@daily", func() {
		if err := safe.RunErr(func() error {
			ctx := context.Background()
			settings := app.Settings(ctx)
			deleted, err := v1.NewAuditLogic(ctx, app).Cleanup(settings.Logging.RetentionDays)
			if err != nil {
				return err
			}
			if deleted > 0 {
				slog.Info("audit log cleanup done", slog.Int64("deleted", deleted))
			}
			return nil
		}); err != nil {
			slog.Error("audit log cleanup failed", slog.Any("error", err))
		}
	})

	c.Start()
}
