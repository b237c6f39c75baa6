package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/assistant"
	"github.com/sachiniyer/order-assistant/internal/assistant/openai"
	"github.com/sachiniyer/order-assistant/internal/catalog"
	"github.com/sachiniyer/order-assistant/internal/dispatch"
	"github.com/sachiniyer/order-assistant/internal/env"
	"github.com/sachiniyer/order-assistant/internal/ratelimiter"
	"github.com/sachiniyer/order-assistant/internal/service"
	"github.com/sachiniyer/order-assistant/internal/store"
	"github.com/sachiniyer/order-assistant/internal/worker"
)

const version = "0.1.0"

//	@title			Order Assistant
//	@description	AI assisted ordering API
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath					/api/v1
//
// @securityDefinitions.apiKey	ApiKeyAuth
// @in							header
// @name						x-api-key
// @description				"Bearer <key>"
func main() {
	_ = godotenv.Load()

	cfg := config{
		addr:    env.GetString("ADDR", ":8080"),
		apiURL:  env.GetString("EXTERNAL_URL", "localhost:8080"),
		env:     env.GetString("ENV", "development"),
		apiKeys: make(map[string]struct{}),
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 20),
			TimeFrame:            env.GetDuration("RATELIMITER_TIME_FRAME", time.Second*5),
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		store: store.Config{
			Backend:       env.GetString("ORDER_STORE", store.BackendMongo),
			CacheSize:     env.GetInt("ORDER_CACHE_SIZE", 1024),
			MongoURI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: env.GetString("MONGO_DATABASE", "order_assistant"),
			MongoTimeout:  time.Second * 10,
			PostgresDSN:   env.GetString("DATABASE_URL", ""),
		},
		rabbitMQ: rabbitMQConfig{
			URL:           env.GetString("RABBITMQ_URL", ""),
			MaxRetries:    env.GetInt("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay:    time.Second * 2,
			PrefetchCount: env.GetInt("RABBITMQ_PREFETCH_COUNT", 10),
		},
		menu: catalog.Config{
			Source: env.GetString("MENU_SOURCE", catalog.SourceFile),
			File:   env.GetString("MENU_FILE", catalog.DefaultFile),
			S3: catalog.S3Config{
				Endpoint:  env.GetString("MENU_S3_ENDPOINT", ""),
				Region:    env.GetString("MENU_S3_REGION", ""),
				AccessKey: env.GetString("MENU_S3_ACCESS_KEY", ""),
				SecretKey: env.GetString("MENU_S3_SECRET_KEY", ""),
				Bucket:    env.GetString("MENU_S3_BUCKET", ""),
				Key:       env.GetString("MENU_S3_KEY", "menu.json"),
				UseSSL:    env.GetBool("MENU_S3_USE_SSL", true),
			},
			Sheets: catalog.SheetsConfig{
				SpreadsheetID:   env.GetString("MENU_SPREADSHEET_ID", ""),
				CredentialsPath: env.GetString("GOOGLE_CREDENTIALS_PATH", ""),
			},
		},
		openAI: openai.Config{
			APIKey:      env.GetString("OPENAI_API_KEY", ""),
			Model:       env.GetString("OPENAI_MODEL", openai.DefaultModel),
			AssistantID: env.GetString("OPENAI_ASSISTANT_ID", ""),
		},
		pollInterval: env.GetDuration("POLL_INTERVAL", assistant.DefaultPollInterval),
	}
	for _, key := range env.GetList("API_KEYS") {
		cfg.apiKeys[key] = struct{}{}
	}

	// logger
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if len(cfg.apiKeys) == 0 {
		logger.Fatal("API_KEYS is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// menu
	menu, err := catalog.Load(ctx, cfg.menu)
	if err != nil {
		logger.Fatalw("failed to load menu", "source", cfg.menu.Source, "error", err)
	}
	logger.Infow("menu loaded", "source", cfg.menu.Source, "items", len(menu.Items))

	// rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// storage
	backend, err := store.Open(ctx, cfg.store, logger)
	if err != nil {
		logger.Fatalw("failed to open order store", "store", cfg.store.Backend, "error", err)
	}

	// broker
	broker, err := openBroker(cfg.rabbitMQ, logger)
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}

	// assistant
	ai, err := openai.New(cfg.openAI, logger)
	if err != nil {
		logger.Fatalw("failed to create OpenAI client", "error", err)
	}
	if _, err := ai.EnsureAssistant(ctx, menu); err != nil {
		logger.Fatalw("failed to initialize assistant", "error", err)
	}

	orchestrator := assistant.NewOrchestrator(
		ai,
		dispatch.New(menu, logger),
		logger,
		assistant.WithPollInterval(cfg.pollInterval),
	)

	orderService := service.NewOrderService(backend.Orders, orchestrator, broker, logger)
	auditService := service.NewAuditService(backend.Orders, backend.Audits, logger)

	eventWorker := worker.NewOrderEventWorker(auditService, broker, logger)

	app := &application{
		config:       cfg,
		logger:       logger,
		rateLimiter:  rateLimiter,
		storage:      backend.Storage,
		closeStorage: backend.Close,
		broker:       broker,
		menu:         menu,
		orderService: orderService,
		auditService: auditService,
		eventWorker:  eventWorker,
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
