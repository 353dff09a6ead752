// Package web wires the HTTP API together. It builds the fiber app,
// registers the handlers and owns the graceful shutdown sequence.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/giftring/giftring/internal/auth"
	"github.com/giftring/giftring/internal/config"
	"github.com/giftring/giftring/internal/exchange"
	loggeradapter "github.com/giftring/giftring/internal/logger/adapter/fiber"
	"github.com/giftring/giftring/internal/notify"
	"github.com/giftring/giftring/internal/web/handler/account"
	"github.com/giftring/giftring/internal/web/handler/group"
	"github.com/giftring/giftring/internal/web/handler/health"
	"github.com/giftring/giftring/internal/web/handler/profile"
	"github.com/giftring/giftring/internal/web/handler/wishlist"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	exchange     *exchange.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of giftring.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app, JSON only, no template engine
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access log middleware
	app.Use(loggeradapter.New(loggeradapter.Config{
		Config:        cfg.Log,
		CheckAliveURI: health.Path,
	}))

	authService := auth.NewService(db, cfg)
	exchangeService := exchange.NewService(db, notify.New())

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
		exchange:    exchangeService,
	}

	service.alive.Store(true)

	// init handlers (they register their own routes)
	if err := health.Handler.Init(app, &service.alive); err != nil {
		log.Fatal().Err(err).Msg("failed to init health handler")
	}

	if err := account.Handler.Init(app, cfg, authService); err != nil {
		log.Fatal().Err(err).Msg("failed to init account handler")
	}

	if err := group.Handler.Init(app, cfg, db, exchangeService); err != nil {
		log.Fatal().Err(err).Msg("failed to init group handler")
	}

	if err := profile.Handler.Init(app, cfg, exchangeService); err != nil {
		log.Fatal().Err(err).Msg("failed to init profile handler")
	}

	if err := wishlist.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init wishlist handler")
	}

	return service
}
