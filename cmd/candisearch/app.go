package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/config"
	dbRedis "github.com/kailas-cloud/candisearch/internal/db/redis"
	"github.com/kailas-cloud/candisearch/internal/db/relational"
	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
	logpkg "github.com/kailas-cloud/candisearch/internal/logger"
	"github.com/kailas-cloud/candisearch/internal/metrics"
	candidaterepo "github.com/kailas-cloud/candisearch/internal/repository/candidate"
	"github.com/kailas-cloud/candisearch/internal/repository/embcache"
	resumerepo "github.com/kailas-cloud/candisearch/internal/repository/resume"
	openaiTransport "github.com/kailas-cloud/candisearch/internal/transport/openai"
	"github.com/kailas-cloud/candisearch/internal/usecase/classify"
	"github.com/kailas-cloud/candisearch/internal/usecase/evaluate"
	"github.com/kailas-cloud/candisearch/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/candisearch/internal/usecase/health"
	"github.com/kailas-cloud/candisearch/internal/usecase/resolve"
	searchuc "github.com/kailas-cloud/candisearch/internal/usecase/search"
	"github.com/kailas-cloud/candisearch/internal/usecase/semantic"
	"github.com/kailas-cloud/candisearch/internal/usecase/structured"
	"github.com/kailas-cloud/candisearch/internal/usecase/synthesize"
	"github.com/kailas-cloud/candisearch/internal/version"
)

// app is the composition root shared by every subcommand.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	database *relational.Store
	index    *dbRedis.Store

	search   *searchuc.Service
	resumes  *semantic.Service
	resolver *resolve.Service
	evaluate *evaluate.Service
	health   *healthuc.Service
}

func loadConfig(opts *rootOptions) (string, config.Config, error) {
	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return "", config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return env, cfg, nil
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	env, cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting candisearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("db_table", cfg.Database.Table),
		zap.Strings("index_addrs", cfg.Index.Addrs),
		zap.String("index_mode", cfg.Index.Mode),
		zap.String("oracle_model", cfg.Oracle.Model),
	)

	a := &app{env: env, cfg: cfg, logger: logger}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.build(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) connect(ctx context.Context) error {
	database, err := relational.Open(relational.Config{
		Driver:       a.cfg.Database.Driver,
		DSN:          a.cfg.Database.DSN,
		MaxOpenConns: a.cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("open candidate store: %w", err)
	}
	a.database = database
	if err := database.Ping(ctx); err != nil {
		return fmt.Errorf("candidate store not ready: %w", err)
	}
	a.logger.Info("Connected to candidate store")

	index, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Index.Addrs,
		Username: a.cfg.Index.Username,
		Password: a.cfg.Index.Password,
		DB:       a.cfg.Index.DB,
	})
	if err != nil {
		return fmt.Errorf("create search index client: %w", err)
	}
	a.index = index
	timeout := time.Duration(a.cfg.Index.ReadinessTimeout) * time.Second
	if err := index.WaitForReady(ctx, timeout); err != nil {
		return fmt.Errorf("search index not ready: %w", err)
	}
	a.logger.Info("Connected to search index")
	return nil
}

func (a *app) build() error {
	// Register metrics explicitly (no init())
	metrics.RegisterOracleMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	oracle := openaiTransport.NewOracle(&openaiTransport.Config{
		APIKey:  a.cfg.Oracle.APIKey,
		BaseURL: a.cfg.Oracle.BaseURL,
		Model:   a.cfg.Oracle.Model,
		Logger:  a.logger,
	})

	// Pass nil interfaces (not typed nil pointers) in text mode.
	var (
		embedder    semantic.Embedder
		embedHealth healthuc.ProviderChecker
	)
	if a.cfg.Index.VectorMode() {
		base := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     a.cfg.Embedding.APIKey,
			BaseURL:    a.cfg.Embedding.BaseURL,
			Model:      a.cfg.Embedding.Model,
			Dimensions: a.cfg.Embedding.Dimensions,
			Provider:   a.cfg.Embedding.Provider,
			Logger:     a.logger,
		})
		embedder = a.queryEmbedder(base)
		embedHealth = base
		a.logger.Info("Query embedder created",
			zap.String("provider", a.cfg.Embedding.Provider),
			zap.String("model", a.cfg.Embedding.Model),
			zap.Bool("cache", a.cfg.Embedding.Cache),
		)
	}

	counter, err := synthesize.NewCounter(a.cfg.Synthesis.Encoding)
	if err != nil {
		a.logger.Warn("Token encoding unavailable, counting by characters",
			zap.String("encoding", a.cfg.Synthesis.Encoding), zap.Error(err))
	}

	// Repositories
	candidates := candidaterepo.New(a.database, allowlist.Default(), a.cfg.Database.Table)
	resumes := resumerepo.New(a.index, resumerepo.Schema{
		Index:        a.cfg.Index.Name,
		IDField:      a.cfg.Index.IDField,
		ContentField: a.cfg.Index.ContentField,
		VectorField:  a.cfg.Index.VectorField,
	})

	// Use cases
	a.resumes = semantic.New(resumes, embedder, a.cfg.Index.DefaultTopK)
	a.resolver = resolve.New(candidates)
	a.search = searchuc.New(
		classify.New(oracle),
		extract.New(oracle, allowlist.Default()),
		structured.New(oracle, candidates),
		a.resumes,
		a.resolver,
		synthesize.New(oracle, counter, a.cfg.Synthesis.MaxContextTokens),
	)

	evaluator, err := evaluate.New(candidates, a.resumes, oracle, evaluate.Options{
		Workers:             a.cfg.Evaluation.Workers,
		DefaultRequirements: a.cfg.Evaluation.DefaultRequirements,
	})
	if err != nil {
		return fmt.Errorf("create evaluator: %w", err)
	}
	a.evaluate = evaluator

	a.health = healthuc.New(a.database, a.index, oracle, embedHealth)
	return nil
}

// queryEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
func (a *app) queryEmbedder(base domain.Embedder) domain.Embedder {
	embedder := base
	if a.cfg.Embedding.Cache {
		embedder = embcache.New(base, a.index, embcache.Options{
			Namespace:  a.cfg.Index.KeyPrefix + "emb:" + a.cfg.Embedding.Model + ":",
			TTL:        time.Duration(a.cfg.Embedding.CacheTTLHours) * time.Hour,
			Dimensions: a.cfg.Embedding.Dimensions,
		}, metrics.EmbeddingCacheTotal, a.logger)
	}

	// Instruction prefix (outermost, so the cache key includes it)
	if a.cfg.Embedding.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, a.cfg.Embedding.QueryInstruction)
	}
	return embedder
}

// withLogger attaches the app logger so use cases can pick it up.
func (a *app) withLogger(ctx context.Context) context.Context {
	return logpkg.ContextWithLogger(ctx, a.logger)
}

// Close releases every resource newApp acquired.
func (a *app) Close() {
	if a.evaluate != nil {
		a.evaluate.Release()
	}
	if a.index != nil {
		a.index.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Warn("Error closing candidate store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
