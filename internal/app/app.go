package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/futpeak/futpeak-engine/external/statsfeed"
	"github.com/futpeak/futpeak-engine/internal/config"
	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
	"github.com/futpeak/futpeak-engine/internal/infrastructure/artifacts"
	cacherepo "github.com/futpeak/futpeak-engine/internal/infrastructure/repository/cache"
	"github.com/futpeak/futpeak-engine/internal/infrastructure/repository/memory"
	"github.com/futpeak/futpeak-engine/internal/infrastructure/repository/postgres"
	basecache "github.com/futpeak/futpeak-engine/internal/platform/cache"
	"github.com/futpeak/futpeak-engine/internal/platform/logging"
	"github.com/futpeak/futpeak-engine/internal/platform/resilience"
	"github.com/futpeak/futpeak-engine/internal/usecase"
)

// App wires the projection engine together for one configured data source.
type App struct {
	Config config.Config
	Logger *logging.Logger
	Bundle *artifacts.Bundle

	Projections *usecase.ProjectionService
	Careers     *usecase.CareerService
	Batch       *usecase.BatchProjectionService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	bundle, err := artifacts.Load(cfg.ArtifactsDir)
	if err != nil {
		return nil, fmt.Errorf("load model artifacts from %s: %w", cfg.ArtifactsDir, err)
	}
	logger.Info("model artifacts loaded",
		"dir", cfg.ArtifactsDir,
		"version", bundle.Version,
		"feature_columns", len(bundle.FeatureColumns),
	)

	a := &App{
		Config: cfg,
		Logger: logger,
		Bundle: bundle,
	}

	athleteRepo, matchlogRepo, err := a.buildRepositories(ctx)
	if err != nil {
		return nil, err
	}

	var store *basecache.Store
	if cfg.CacheEnabled {
		store = basecache.NewStore(cfg.CacheTTL)
		athleteRepo = cacherepo.NewAthleteRepository(athleteRepo, store)
		matchlogRepo = cacherepo.NewMatchlogRepository(matchlogRepo, store)
	}

	a.Projections = usecase.NewProjectionService(athleteRepo, matchlogRepo, bundle, store, logger)
	a.Careers = usecase.NewCareerService(athleteRepo, matchlogRepo)
	a.Batch = usecase.NewBatchProjectionService(a.Projections, logger)

	return a, nil
}

func (a *App) buildRepositories(ctx context.Context) (athlete.Repository, matchlog.Repository, error) {
	switch a.Config.Source {
	case config.SourceMemory:
		a.Logger.Info("data source ready", "source", config.SourceMemory)
		return memory.NewAthleteRepository(memory.SeedAthletes()),
			memory.NewMatchlogRepository(memory.SeedMatchlogs()),
			nil

	case config.SourcePostgres:
		dbURL := normalizeDBURL(a.Config.DBURL, a.Config.DBDisablePreparedBinary)
		db, err := otelsqlx.Connect("postgres", dbURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(a.Config.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		a.db = db

		if a.Config.AppEnv == config.EnvDev {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("seed dev database: %w", err)
			}
		}

		a.Logger.Info("data source ready", "source", config.SourcePostgres, "db", dbNameFromURL(a.Config.DBURL))
		return postgres.NewAthleteRepository(db), postgres.NewMatchlogRepository(db), nil

	case config.SourceStatsFeed:
		client := statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    a.Config.StatsFeedBaseURL,
			APIKey:     a.Config.StatsFeedAPIKey,
			Timeout:    a.Config.StatsFeedTimeout,
			MaxRetries: a.Config.StatsFeedMaxRetries,
			Logger:     a.Logger,
			CircuitBreaker: resilience.BreakerConfig{
				Enabled:          a.Config.StatsFeedCircuitEnabled,
				FailureThreshold: a.Config.StatsFeedCircuitFailureCount,
				OpenTimeout:      a.Config.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   a.Config.StatsFeedCircuitHalfOpenMaxReq,
			},
		})
		a.Logger.Info("data source ready", "source", config.SourceStatsFeed, "base_url", a.Config.StatsFeedBaseURL)
		return client, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown data source %q", a.Config.Source)
	}
}

// Close releases the database handle when one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
