package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/farm-market/internal/config"
	"github.com/pkg/errors"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
}

// NewApp создаёт новый экземпляр App и проверяет подключение к БД
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	if cfg.Database.Password == "" {
		return nil, errors.New("database password is not set")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	log.Info("database connected",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	return &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}, nil
}
