package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptopulse/internal/bot"
	"cryptopulse/internal/cache"
	"cryptopulse/internal/collector"
	"cryptopulse/internal/config"
	"cryptopulse/internal/handler"
	"cryptopulse/internal/job"
	"cryptopulse/internal/provider"
	"cryptopulse/internal/sentiment"
	"cryptopulse/internal/service"
	"cryptopulse/internal/store"
	"cryptopulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "cryptopulse/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newStoreFunc           = store.New
	startSchedulerFunc     = func(s *job.Scheduler, ctx context.Context) { go s.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           CryptoPulse API
// @version         1.0
// @description     Crypto price and social sentiment collection service.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	artifacts, err := newStoreFunc(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open data dir: %v", err)
	}

	// All providers share one rate limiter and retrying client.
	limiter := provider.NewRateLimiter(cfg.CallsPerSecond, cfg.CallsPerMinute)
	client := provider.NewClient(limiter, cfg.MaxRetries, time.Duration(cfg.BaseDelaySecs)*time.Second)

	coingecko := provider.NewCoinGeckoProvider(tracer, client)
	reddit := provider.NewRedditProvider(tracer, client, cfg.RedditUserAgent)
	twitter := provider.NewTwitterProvider(tracer, client, cfg.TwitterBearerToken)
	feargreed := provider.NewFearGreedProvider(tracer, client)

	runner := collector.NewRunner(tracer,
		collector.NewPriceCollector(tracer, coingecko, artifacts, cfg.HistoryDays, time.Duration(cfg.CoinDelaySecs)*time.Second),
		collector.NewRedditCollector(tracer, reddit, artifacts, cfg.PostsPerSubreddit, cfg.CommentPosts),
		collector.NewTwitterCollector(tracer, twitter, artifacts, cfg.TweetsPerKeyword),
	)

	var llm sentiment.BatchScorer
	if scorer := sentiment.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel); scorer != nil {
		llm = scorer
	}
	analyzer := sentiment.NewAnalyzer(tracer, artifacts, llm, cfg.SentimentBatchSize)

	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	priceService := service.NewPriceService(tracer, coingecko, artifacts, redisClient)
	insightService := service.NewInsightService(tracer, artifacts, feargreed)

	scheduler := job.NewScheduler(tracer, runner, analyzer, priceService, cfg.CollectIntervalMins, cfg.PricePollSecs)
	startSchedulerFunc(scheduler, ctx)

	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(priceService, insightService)

	h := handler.New(tracer, priceService, insightService)
	h.SetHarvestTrigger(runner)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("cryptopulse"))

	h.RegisterRoutes(r, handler.APIKeyAuth(cfg.APIKey))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
