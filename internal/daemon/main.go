// Package daemon bootstraps the database and the web service.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/db/dsn"
	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/logger/adapter/gormlog"
	"github.com/giftring/giftring/internal/web"
	"github.com/giftring/giftring/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down gracefully.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	// mock mode runs against an in-memory database, same code path as real mode
	if cfg.Mock {
		log.Warn().Msg("mock mode enabled: using in-memory database with fixture data")

		cfg.DB.Engine = config.EngineSQLite
		cfg.DB.Path = ""
	}

	db, err := gorm.Open(dsn.Dialector(cfg), &gorm.Config{
		Logger: gormlog.New(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Match{},
		&models.Invite{},
		&models.WishlistItem{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	if cfg.Mock {
		seed(cfg, db)
	}

	session.Init(sessionStorage(cfg))

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}

// sessionStorage selects a session backend matching the database engine.
// The sqlite engine keeps sessions in process memory, they do not survive a
// restart there.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case config.EngineSQLite:
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
