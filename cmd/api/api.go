package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/docs"
	"github.com/sachiniyer/order-assistant/internal/assistant/openai"
	"github.com/sachiniyer/order-assistant/internal/catalog"
	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/queue"
	"github.com/sachiniyer/order-assistant/internal/ratelimiter"
	"github.com/sachiniyer/order-assistant/internal/service"
	"github.com/sachiniyer/order-assistant/internal/store"
	"github.com/sachiniyer/order-assistant/internal/worker"
)

type application struct {
	config       config
	logger       *zap.SugaredLogger
	rateLimiter  ratelimiter.Limiter
	storage      store.HealthChecker
	closeStorage func(context.Context) error
	broker       queue.Broker
	menu         *domain.Menu
	orderService *service.OrderService
	auditService *service.AuditService
	eventWorker  *worker.OrderEventWorker
}

type config struct {
	addr         string
	env          string
	apiURL       string
	apiKeys      map[string]struct{}
	rateLimiter  ratelimiter.Config
	store        store.Config
	rabbitMQ     rabbitMQConfig
	menu         catalog.Config
	openAI       openai.Config
	pollInterval time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		docsURL := fmt.Sprintf("http://%s/api/v1/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.Group(func(r chi.Router) {
			r.Use(app.apiKeyMiddleware)

			r.Post("/start", app.startOrderHandler)
			r.Post("/chat", app.chatHandler)

			r.Get("/order/{order_id}", app.getOrderHandler)
			r.Get("/order/{order_id}/audit", app.getOrderAuditHandler)

			r.Get("/menu", app.getMenuHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Order Assistant"
	docs.SwaggerInfo.Description = "AI assisted ordering API"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	// workers
	if app.eventWorker != nil {
		if err := app.eventWorker.Start(); err != nil {
			return fmt.Errorf("failed to start order event worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:    app.config.addr,
		Handler: mux,
		// a chat turn polls the assistant until it finishes
		WriteTimeout: time.Minute * 2,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)

		if app.eventWorker != nil {
			app.eventWorker.Stop()
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing broker", "error", err)
			} else {
				app.logger.Info("broker closed gracefully")
			}
		}

		if app.closeStorage != nil {
			if err := app.closeStorage(ctx); err != nil {
				app.logger.Errorw("error closing storage", "error", err)
			} else {
				app.logger.Info("storage closed gracefully")
			}
		}

		shutdown <- err
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
