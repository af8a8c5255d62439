package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employercheck/internal/cache"
	"employercheck/internal/config"
	"employercheck/internal/eligibility"
	"employercheck/internal/repository"
	"employercheck/internal/service"
	"employercheck/internal/transport/rest"
	"employercheck/internal/transport/ws"
)

const pingTimeout = 5 * time.Second

// App wires stores, caches and services for one process
type App struct {
	Config *config.Config
	Mongo  *mongo.Client
	Redis  *redis.Client

	RulesetRepo    repository.RulesetRepo
	SessionRepo    repository.SessionRepo
	AssessmentRepo repository.AssessmentRepo

	RulesetCache cache.RulesetCache
	SessionCache cache.SessionCache
	DraftCache   cache.DraftCache
	StatsCache   cache.StatsCache

	AuthService       *service.AuthService
	RulesetService    *service.RulesetService
	InterviewService  *service.InterviewService
	EvaluationService *service.EvaluationService

	WSHub *ws.Hub
}

// ConnectMongo opens and pings the document store
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// ConnectRedis opens and pings the cache
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     strings.TrimPrefix(cfg.RedisAddr, "redis://"),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New builds the application graph on connected clients
func New(cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client) (*App, error) {
	authSvc, err := service.NewAuthService(cfg)
	if err != nil {
		return nil, err
	}

	db := mongoClient.Database(cfg.MongoDB)
	a := &App{
		Config: cfg,
		Mongo:  mongoClient,
		Redis:  rdb,

		RulesetRepo:    repository.NewRulesetRepo(db),
		SessionRepo:    repository.NewSessionRepo(db),
		AssessmentRepo: repository.NewAssessmentRepo(db),

		RulesetCache: cache.NewRulesetCache(rdb, cfg.HintsCacheTTL),
		SessionCache: cache.NewSessionCache(rdb, cfg.IdempotencyTTL),
		DraftCache:   cache.NewDraftCache(rdb, cfg.DraftTTL),
		StatsCache:   cache.NewStatsCache(rdb),

		AuthService: authSvc,
		WSHub:       ws.NewHub(),
	}

	a.RulesetService = service.NewRulesetService(a.RulesetRepo, a.RulesetCache)
	a.InterviewService = service.NewInterviewService(a.RulesetService, a.DraftCache)
	a.EvaluationService = service.NewEvaluationService(
		a.RulesetService,
		a.SessionRepo,
		a.AssessmentRepo,
		a.SessionCache,
		a.StatsCache,
		eligibility.NewEvaluator(),
	)
	return a, nil
}

// Router returns the HTTP handler serving the API
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:       a.AuthService,
		RulesetService:    a.RulesetService,
		InterviewService:  a.InterviewService,
		EvaluationService: a.EvaluationService,
		WSHub:             a.WSHub,
		CORSOrigins:       a.Config.CORSAllowedOrigins,
	})
}

// Close disconnects live sessions and both clients
func (a *App) Close(ctx context.Context) error {
	a.WSHub.Close()
	return errors.Join(
		a.Redis.Close(),
		a.Mongo.Disconnect(ctx),
	)
}
