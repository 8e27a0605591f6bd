package core

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kchat-ai/kchat/app/core/srv"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr     string       `toml:"addr"`
	Log      Log          `toml:"log"`
	Postgres PGConfig     `toml:"postgres"`
	AI       srv.AIConfig `toml:"ai"`
	Security Security     `toml:"security"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("KCHAT_SERVICE_ADDRESS")
	c.Log = Log{
		Path:  os.Getenv("KCHAT_LOG_PATH"),
		Level: os.Getenv("KCHAT_LOG_LEVEL"),
	}
	c.Postgres = PGConfig{
		DSN: os.Getenv("KCHAT_POSTGRES_DSN"),
	}
	c.AI = srv.AIConfig{
		Driver:         os.Getenv("KCHAT_AI_DRIVER"),
		Token:          os.Getenv("KCHAT_AI_TOKEN"),
		Endpoint:       os.Getenv("KCHAT_AI_ENDPOINT"),
		EmbeddingModel: os.Getenv("KCHAT_AI_EMBEDDING_MODEL"),
	}
	c.Security = Security{
		JWTSecret: os.Getenv("KCHAT_JWT_SECRET"),
	}
}

type Security struct {
	JWTSecret string `toml:"jwt_secret"`
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c CoreConfig) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres dsn is required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security jwt_secret is required")
	}
	return nil
}

// DefaultTokenLifetime applies when the stored session lifetime is unusable.
const DefaultTokenLifetime = 8 * time.Hour
