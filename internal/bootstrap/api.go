package bootstrap

import (
	"strings"

	"spendscan/adapter/in/http"
	"spendscan/config"
	"spendscan/infra/middleware"
	"spendscan/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "spendscan-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		Prefork:               false,
		StrictRouting:         false,
		CaseSensitive:         false,

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json is 2-3x faster than encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 10 * 1024 * 1024, // 10MB

		ServerHeader:       "",
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// CORS. AllowCredentials:true requires explicit origins, never "*".
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Health check (no auth required)
	healthHandler := http.NewHealthHandlerWithDeps(deps.DB, deps.Redis)
	healthHandler.Register(app)

	// API routes
	api := app.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(middleware.JWTAuth(cfg.JWTSecret))
	} else if cfg.IsProduction() {
		logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	parseHandler := http.NewParseHandler(deps.ParseService)
	parseHandler.Register(api)

	if deps.ExtractionService != nil {
		extractionHandler := http.NewExtractionHandlerFull(
			deps.ExtractionService,
			deps.RecordRepo,
			deps.InvoiceRepo,
		)
		extractionHandler.Register(api)
	} else {
		logger.Warn("Extraction routes not registered (mailbox unavailable)")
	}

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}
