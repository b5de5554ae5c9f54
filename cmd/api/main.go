// VideoRating API 主程序
// 功能：提供视频比较与贡献者评分服务，包括账户、视频、比较、评分四个限界上下文
// 架构：基于 DDD + Gin + GORM + Kafka
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	accountapp "github.com/wyfcoding/videorating/internal/account/application"
	accountdomain "github.com/wyfcoding/videorating/internal/account/domain"
	accountmessaging "github.com/wyfcoding/videorating/internal/account/infrastructure/messaging"
	accountmysql "github.com/wyfcoding/videorating/internal/account/infrastructure/persistence/mysql"
	"github.com/wyfcoding/videorating/internal/account/infrastructure/sender"
	"github.com/wyfcoding/videorating/internal/account/infrastructure/verification"
	accounthttp "github.com/wyfcoding/videorating/internal/account/interfaces/http"
	authapp "github.com/wyfcoding/videorating/internal/auth/application"
	comparisonapp "github.com/wyfcoding/videorating/internal/comparison/application"
	comparisondomain "github.com/wyfcoding/videorating/internal/comparison/domain"
	comparisonmessaging "github.com/wyfcoding/videorating/internal/comparison/infrastructure/messaging"
	comparisonmysql "github.com/wyfcoding/videorating/internal/comparison/infrastructure/persistence/mysql"
	comparisonhttp "github.com/wyfcoding/videorating/internal/comparison/interfaces/http"
	ratelaterapp "github.com/wyfcoding/videorating/internal/ratelater/application"
	ratelaterdomain "github.com/wyfcoding/videorating/internal/ratelater/domain"
	ratelatermysql "github.com/wyfcoding/videorating/internal/ratelater/infrastructure/persistence/mysql"
	ratelaterhttp "github.com/wyfcoding/videorating/internal/ratelater/interfaces/http"
	ratingapp "github.com/wyfcoding/videorating/internal/rating/application"
	ratingdomain "github.com/wyfcoding/videorating/internal/rating/domain"
	ratingmessaging "github.com/wyfcoding/videorating/internal/rating/infrastructure/messaging"
	ratingmysql "github.com/wyfcoding/videorating/internal/rating/infrastructure/persistence/mysql"
	ratinghttp "github.com/wyfcoding/videorating/internal/rating/interfaces/http"
	videoapp "github.com/wyfcoding/videorating/internal/video/application"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	videomysql "github.com/wyfcoding/videorating/internal/video/infrastructure/persistence/mysql"
	videohttp "github.com/wyfcoding/videorating/internal/video/interfaces/http"
	"github.com/wyfcoding/videorating/pkg/cache"
	"github.com/wyfcoding/videorating/pkg/config"
	"github.com/wyfcoding/videorating/pkg/db"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/metrics"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"github.com/wyfcoding/videorating/pkg/mq"
	"github.com/wyfcoding/videorating/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

const verificationTTL = 24 * time.Hour

func main() {
	// 1. 加载配置
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting VideoRating API",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	// 3. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 4. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Metrics:            metricsInstance,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if cfg.Environment != "prod" {
		if err := database.AutoMigrate(
			&videodomain.Video{},
			&comparisondomain.Comparison{},
			&comparisondomain.ComparisonCriteriaScore{},
			&ratingdomain.ContributorRating{},
			&ratingdomain.ContributorRatingCriteriaScore{},
			&ratelaterdomain.VideoRateLater{},
			&accountdomain.User{},
			&accountdomain.EmailDomain{},
		); err != nil {
			logger.Fatal(ctx, "Failed to migrate database", "error", err)
		}
	}

	// 5. 初始化 Redis，不可用时退化为进程内实现
	var rateLimiter ratelimit.RateLimiter
	var verificationStore accountdomain.VerificationStore
	redisCache, err := cache.New(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxPoolSize: cfg.Redis.MaxPoolSize,
	})
	if err != nil {
		logger.Warn(ctx, "Redis unavailable, using in-process fallbacks", "error", err)
		verificationStore = verification.NewMemoryStore(verificationTTL)
	} else {
		defer redisCache.Close()
		rateLimiter = ratelimit.NewRedisRateLimiter(redisCache.Client())
		verificationStore = verification.NewRedisStore(redisCache, verificationTTL)
	}

	// 6. 初始化 Kafka，未配置 broker 时不发布事件
	var accountPublisher accountdomain.EventPublisher = accountmessaging.NewNoopPublisher()
	var comparisonPublisher comparisondomain.EventPublisher = comparisonmessaging.NewNoopPublisher()
	var ratingPublisher ratingdomain.EventPublisher = ratingmessaging.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
		}
		defer producer.Close()
		accountPublisher = accountmessaging.NewKafkaPublisher(producer)
		comparisonPublisher = comparisonmessaging.NewKafkaPublisher(producer)
		ratingPublisher = ratingmessaging.NewKafkaPublisher(producer)
	}

	// 7. 初始化邮件发送器
	var emailSender accountdomain.EmailSender
	if cfg.Environment == "prod" {
		emailSender = sender.NewSMTPSender(sender.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		emailSender = sender.NewRecorderSender()
	}

	// 8. 初始化仓储
	videoRepo := videomysql.NewVideoRepository(database.DB)
	comparisonRepo := comparisonmysql.NewComparisonRepository(database.DB)
	ratingRepo := ratingmysql.NewContributorRatingRepository(database.DB)
	rateLaterRepo := ratelatermysql.NewVideoRateLaterRepository(database.DB)
	userRepo := accountmysql.NewUserRepository(database.DB)
	emailDomainRepo := accountmysql.NewEmailDomainRepository(database.DB)

	// 9. 初始化应用服务
	tokenService := authapp.NewTokenService(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)*time.Second)
	videoService := videoapp.NewVideoService(videoRepo)
	comparisonCmd := comparisonapp.NewComparisonCommandService(comparisonRepo, videoRepo, comparisonPublisher)
	comparisonQuery := comparisonapp.NewComparisonQueryService(comparisonRepo, videoRepo)
	ratingCmd := ratingapp.NewRatingCommandService(ratingRepo, videoRepo, ratingPublisher)
	ratingQuery := ratingapp.NewRatingQueryService(ratingRepo)
	rateLaterService := ratelaterapp.NewRateLaterService(rateLaterRepo, videoRepo)
	accountCmd := accountapp.NewAccountCommandService(
		userRepo, emailDomainRepo, verificationStore, emailSender, accountPublisher,
		cfg.SMTP.VerificationBaseURL,
	)
	accountQuery := accountapp.NewAccountQueryService(userRepo, emailDomainRepo)

	// 10. 创建 HTTP 服务器
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinMetricsMiddleware(metricsInstance))
	router.Use(middleware.GinRateLimitMiddleware(rateLimiter, middleware.RateLimitConfig{
		Enabled: cfg.RateLimit.Enabled,
		QPS:     cfg.RateLimit.QPS,
		Burst:   cfg.RateLimit.Burst,
	}))

	authRequired := middleware.GinAuthMiddleware(tokenService)
	api := router.Group("")
	videohttp.NewHandler(videoService).RegisterRoutes(api, authRequired)
	comparisonhttp.NewHandler(comparisonCmd, comparisonQuery, metricsInstance).RegisterRoutes(api, authRequired)
	ratinghttp.NewHandler(ratingCmd, ratingQuery, metricsInstance).RegisterRoutes(api, authRequired)
	ratelaterhttp.NewHandler(rateLaterService).RegisterRoutes(api, authRequired)
	accounthttp.NewHandler(accountCmd, accountQuery, tokenService, metricsInstance).RegisterRoutes(api, authRequired)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 11. 启动并等待关停信号
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Info(ctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info(ctx, "Shutting down VideoRating API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server exited with error", "error", err)
	}
	logger.Info(ctx, "VideoRating API stopped")
}
