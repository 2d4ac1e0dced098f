package app

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/footylytics/rating-engine/internal/config"
	"github.com/footylytics/rating-engine/internal/domain/club"
	"github.com/footylytics/rating-engine/internal/domain/fixture"
	"github.com/footylytics/rating-engine/internal/domain/match"
	"github.com/footylytics/rating-engine/internal/domain/nationalteam"
	"github.com/footylytics/rating-engine/internal/domain/player"
	"github.com/footylytics/rating-engine/internal/infrastructure/jobqueue"
	"github.com/footylytics/rating-engine/internal/infrastructure/repository/memory"
	"github.com/footylytics/rating-engine/internal/infrastructure/repository/postgres"
	"github.com/footylytics/rating-engine/internal/interfaces/httpapi"
	"github.com/footylytics/rating-engine/internal/platform/cache"
	idgen "github.com/footylytics/rating-engine/internal/platform/id"
	"github.com/footylytics/rating-engine/internal/platform/logging"
	"github.com/footylytics/rating-engine/internal/platform/resilience"
	"github.com/footylytics/rating-engine/internal/usecase"
)

type repositories struct {
	players  player.Repository
	clubs    club.Repository
	teams    nationalteam.Repository
	matches  match.Repository
	fixtures fixture.Repository
	close    func() error
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()
	ledger := usecase.NewLedgerService(repos.players, repos.matches, cacheStore, logger)
	playerSvc := usecase.NewPlayerService(repos.players, repos.clubs, repos.teams, cacheStore, ids, nil, logger)
	clubSvc := usecase.NewClubService(repos.clubs, cacheStore, ids, logger)
	matchSvc := usecase.NewMatchService(repos.matches, repos.players, repos.clubs, repos.teams, ledger, ids, nil, logger)
	standingsSvc := usecase.NewStandingsService(repos.players, repos.clubs, repos.teams, cacheStore, nil)
	fixtureSvc := usecase.NewFixtureService(repos.fixtures, repos.clubs, repos.teams, standingsSvc, ids, logger)
	maintenanceSvc := usecase.NewMaintenanceService(repos.matches, ledger, logger)

	handler := httpapi.NewHandler(playerSvc, clubSvc, matchSvc, fixtureSvc, standingsSvc, maintenanceSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	if repos.close != nil {
		closeStore := repos.close
		server.RegisterOnShutdown(func() {
			if err := closeStore(); err != nil {
				logger.Error("close store failed", "error", err)
			}
		})
	}

	if cfg.QStashEnabled {
		startPurgeScheduler(cfg, server, logger)
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return repositories{}, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("postgres store ready", "db_name", dbNameFromURL(cfg.DBURL))

		return repositories{
			players:  postgres.NewPlayerRepository(db),
			clubs:    postgres.NewClubRepository(db),
			teams:    postgres.NewNationalTeamRepository(db),
			matches:  postgres.NewMatchRepository(db),
			fixtures: postgres.NewFixtureRepository(db),
			close:    db.Close,
		}, nil
	default:
		store := memory.NewStore()
		if cfg.SeedDemoData {
			memory.Seed(store)
			logger.Info("memory store seeded with demo data")
		}

		return repositories{
			players:  memory.NewPlayerRepository(store),
			clubs:    memory.NewClubRepository(store),
			teams:    memory.NewNationalTeamRepository(store),
			matches:  memory.NewMatchRepository(store),
			fixtures: memory.NewFixtureRepository(store),
		}, nil
	}
}

// startPurgeScheduler runs the purge publisher loop until the server shuts
// down. The queue calls the service back on the internal job endpoint, so the
// loop only publishes and never touches the store directly.
func startPurgeScheduler(cfg config.Config, server *http.Server, logger *logging.Logger) {
	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)

	scheduler := jobqueue.NewPurgeScheduler(publisher, jobqueue.PurgeSchedulerConfig{
		Interval:      cfg.JobScheduleInterval,
		RetentionDays: cfg.PurgeRetentionDays,
		Workers:       cfg.PurgeWorkers,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	server.RegisterOnShutdown(cancel)
	go scheduler.Run(ctx)
}
