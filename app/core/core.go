package core

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kchat-ai/kchat/app/core/srv"
	"github.com/kchat-ai/kchat/app/store"
	"github.com/kchat-ai/kchat/app/store/sqlstore"
	"github.com/kchat-ai/kchat/pkg/metrics"
	"github.com/kchat-ai/kchat/pkg/types"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() store.Store
	httpEngine *gin.Engine

	metrics *metrics.Manager
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		metrics:    metrics.NewManager("kchat"),
		httpEngine: gin.New(),
	}

	setupSqlStore(core)

	core.srv = srv.SetupSrvs(srv.ApplyAI(cfg.AI))

	return core
}

func setupSqlStore(core *Core) {
	provider := sqlstore.MustSetup(core.cfg.Postgres)
	if err := provider().Install(); err != nil {
		panic(err)
	}
	core.stores = func() store.Store {
		return provider()
	}
}

// MustSetupTestCore wires a Core around injected stores and services so the
// logic layer can run against in-memory fakes.
func MustSetupTestCore(s store.Store, services *srv.Srv) *Core {
	return &Core{
		srv:        services,
		stores:     func() store.Store { return s },
		httpEngine: gin.New(),
		metrics:    metrics.NewManager("kchat"),
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *metrics.Manager {
	return s.metrics
}

func (s *Core) Store() store.Store {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

// Settings re-reads the singleton settings record on every call so admin
// updates take effect on the next request. A missing record means defaults.
func (s *Core) Settings(ctx context.Context) types.SettingsPayload {
	record, err := s.Store().SystemSettingsStore().Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("failed to load system settings, using defaults", slog.Any("error", err))
		}
		return types.DefaultSettings()
	}
	return record.Settings.Normalize()
}
