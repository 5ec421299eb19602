// Package bootstrap wires configuration, infrastructure, and services.
package bootstrap

import (
	"context"
	"strings"
	"time"

	"spendscan/adapter/out/llm"
	"spendscan/adapter/out/mongodb"
	"spendscan/adapter/out/persistence"
	"spendscan/adapter/out/provider"
	"spendscan/config"
	"spendscan/core/port/in"
	"spendscan/core/port/out"
	"spendscan/core/service/classify"
	"spendscan/core/service/extraction"
	"spendscan/core/service/invoice"
	"spendscan/core/service/query"
	"spendscan/core/service/retrieval"
	"spendscan/infra/database"
	"spendscan/pkg/cache"
	"spendscan/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
)

type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	Mailbox     out.MailboxPort
	RecordRepo  out.RecordRepository
	InvoiceRepo out.InvoiceRepository
	Archive     out.DocumentArchive
	ResultCache out.ResultCache

	ExtractionService in.ExtractionUseCase
	ParseService      in.ParseUseCase
}

// NewDependencies builds all adapters and services. Databases are
// optional: a missing URL disables the concern instead of failing
// startup, so the parse endpoints work with nothing but an API key.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL
	if cfg.DatabaseURL != "" {
		logger.Debug("Connecting to PostgreSQL...")
		pool, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.DB = pool
		cleanups = append(cleanups, func() { pool.Close() })

		// sqlx over the same database for the row-mapping adapters
		sqlxURL := cfg.DatabaseURL
		if strings.Contains(sqlxURL, "?") {
			sqlxURL += "&default_query_exec_mode=simple_protocol"
		} else {
			sqlxURL += "?default_query_exec_mode=simple_protocol"
		}
		sqlDB, err := sqlx.Connect("pgx", sqlxURL)
		if err != nil {
			logger.WithError(err).Error("sqlx connection failed")
			cleanup()
			return nil, nil, err
		}
		deps.SQLDB = sqlDB
		cleanups = append(cleanups, func() { sqlDB.Close() })

		deps.RecordRepo = persistence.NewRecordAdapter(sqlDB)
		deps.InvoiceRepo = persistence.NewInvoiceAdapter(sqlDB)
	} else {
		logger.Warn("DATABASE_URL not set, record persistence disabled")
	}

	// Redis
	if cfg.RedisURL != "" {
		logger.Debug("Connecting to Redis...")
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Redis = redisClient
		cleanups = append(cleanups, func() { redisClient.Close() })

		deps.ResultCache = cache.NewResultCache(cache.NewRedisCache(redisClient))
	} else {
		logger.Warn("REDIS_URL not set, result caching disabled")
	}

	// MongoDB
	if cfg.MongoDBURL != "" {
		logger.Debug("Connecting to MongoDB...")
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.MongoDB = mongoClient
		cleanups = append(cleanups, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(ctx)
		})

		archive := mongodb.NewDocumentTextAdapter(mongoClient.Database(cfg.MongoDBName))
		{
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := archive.EnsureIndexes(ctx); err != nil {
				logger.WithError(err).Warn("failed to ensure document text indexes")
			}
			cancel()
		}
		deps.Archive = archive
	} else {
		logger.Warn("MONGODB_URL not set, document text archive disabled")
	}

	// Gmail
	if cfg.GoogleClientID != "" && (cfg.GmailAccessToken != "" || cfg.GmailRefreshToken != "") {
		deps.Mailbox = provider.NewGmailAdapter(
			&provider.GmailConfig{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleRedirectURL,
			},
			&oauth2.Token{
				AccessToken:  cfg.GmailAccessToken,
				RefreshToken: cfg.GmailRefreshToken,
			},
		)
	} else {
		logger.Warn("Gmail credentials not configured, extraction disabled")
	}

	// Invoice parser (model tier is lazy; built on first document)
	classifier := classify.NewClassifier()
	parser := invoice.NewParser(
		llm.Factory(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		}),
		invoice.NewFallbackParser(classifier),
	)
	deps.ParseService = extraction.NewParseService(parser)

	if deps.Mailbox != nil {
		deps.ExtractionService = extraction.NewService(extraction.Deps{
			Builder:    query.NewBuilder(mergedVendors(cfg.ExtraVendors)),
			Retriever:  retrieval.NewRetriever(deps.Mailbox, cfg.LiveSession),
			Classifier: classifier,
			Parser:     parser,
			Mailbox:    deps.Mailbox,
			Records:    deps.RecordRepo,
			Invoices:   deps.InvoiceRepo,
			Cache:      deps.ResultCache,
			Archive:    deps.Archive,
		})
	}

	return deps, cleanup, nil
}

func mergedVendors(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	vendors := make([]string, 0, len(query.DefaultVendors)+len(extra))
	vendors = append(vendors, query.DefaultVendors...)
	vendors = append(vendors, extra...)
	return vendors
}
