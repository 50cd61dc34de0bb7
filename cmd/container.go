package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/config"
	"github.com/Abraxas-365/jobboard/pkg/fsx"
	"github.com/Abraxas-365/jobboard/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/jobboard/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/recruitment/applicant/applicantinfra"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationapi"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/jobboard/recruitment/company/companyinfra"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobapi"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobinfra"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobsrv"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankingapi"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankinginfra"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankingsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	LocalFiles *fsxlocal.LocalFileSystem // set when resumes are served from disk
	Ranker     *rankinginfra.HTTPRanker

	// Services
	JobService          *jobsrv.JobService
	ApplicationService  *applicationsrv.ApplicationService
	RankingOrchestrator *rankingsrv.Orchestrator

	// API Handlers
	JobHandlers         *jobapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
	RankingHandlers     *rankingapi.Handlers

	// Auth
	TokenService   *auth.JWTService
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// 1. Database
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	c.DB = db

	// 2. Redis. The ranking cache degrades to misses when Redis is down.
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. Resume storage
	switch cfg.Storage.Driver {
	case config.StorageDriverLocal:
		local, err := fsxlocal.NewLocalFileSystem(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
		c.LocalFiles = local
		c.FileSystem = local
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(
			s3.NewFromConfig(awsCfg),
			cfg.Storage.Bucket,
			cfg.Storage.Prefix,
			fsxs3.WithRegion(cfg.Storage.Region),
			fsxs3.WithPublicBaseURL(cfg.Storage.PublicBaseURL),
		)
	}

	// 4. Ranking Service client
	ranker, err := rankinginfra.NewHTTPRanker(cfg.Ranking.ServiceURL, cfg.Ranking.Timeout+5*time.Second)
	if err != nil {
		return err
	}
	c.Ranker = ranker

	// 5. Auth
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	c.TokenService = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	logx.Infof("Infrastructure ready (storage=%s, ranking=%s)", cfg.Storage.Driver, cfg.Ranking.ServiceURL)
	return nil
}

func (c *Container) initServices() error {
	cfg := c.Config

	// Repositories
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	companyRepo := companyinfra.NewPostgresCompanyRepository(c.DB)
	applicantRepo := applicantinfra.NewPostgresApplicantRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)

	// Services
	policy := application.PermissiveTransitions
	if cfg.Applications.StrictTransitions {
		policy = application.StrictTransitions
	}

	c.JobService = jobsrv.NewJobService(jobRepo, companyRepo)
	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo,
		jobRepo,
		companyRepo,
		applicantRepo,
		c.FileSystem,
		applicationsrv.WithTransitionPolicy(policy),
		applicationsrv.WithMaxResumeBytes(cfg.Applications.MaxResumeBytes),
	)
	c.RankingOrchestrator = rankingsrv.NewOrchestrator(
		c.ApplicationService,
		c.Ranker,
		rankingsrv.WithTimeout(cfg.Ranking.Timeout),
		rankingsrv.WithMaxConcurrency(cfg.Ranking.MaxConcurrency),
		rankingsrv.WithCache(rankinginfra.NewRedisCache(c.Redis, cfg.Ranking.CacheTTL)),
	)

	// Handlers
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.RankingHandlers = rankingapi.NewHandlers(c.RankingOrchestrator)
	return nil
}

// Close releases connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("Failed to close Redis: %v", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Warnf("Failed to close database: %v", err)
		}
	}
}
