package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServerPort string
	APIKey     string
	RedisURL   string

	DataDir             string
	CollectIntervalMins int
	PricePollSecs       int

	CallsPerSecond    int
	CallsPerMinute    int
	MaxRetries        int
	BaseDelaySecs     int
	CoinDelaySecs     int
	HistoryDays       int
	PostsPerSubreddit int
	CommentPosts      int
	TweetsPerKeyword  int

	RedditUserAgent    string
	TwitterBearerToken string
	TelegramBotToken   string

	OpenAIAPIKey       string
	OpenAIModel        string
	SentimentBatchSize int
}

func Load() *Config {
	cfg := &Config{
		APIKey:             os.Getenv("API_KEY"),
		RedisURL:           os.Getenv("REDIS_URL"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, API authentication disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, price caching disabled")
	}
	if cfg.TwitterBearerToken == "" {
		log.Println("Warning: TWITTER_BEARER_TOKEN not set, tweet collection disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, sentiment falls back to the lexicon scorer")
	}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.DataDir = strings.TrimSpace(os.Getenv("DATA_DIR"))
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	cfg.CollectIntervalMins = envInt("COLLECT_INTERVAL_MINS", 60)
	cfg.PricePollSecs = envInt("PRICE_POLL_SECS", 60)

	cfg.CallsPerSecond = envInt("CALLS_PER_SECOND", 1)
	cfg.CallsPerMinute = envInt("CALLS_PER_MINUTE", 30)
	cfg.MaxRetries = envInt("MAX_RETRIES", 3)
	cfg.BaseDelaySecs = envInt("BASE_DELAY_SECS", 2)
	cfg.CoinDelaySecs = envInt("COIN_DELAY_SECS", 2)
	cfg.HistoryDays = envInt("HISTORY_DAYS", 365)
	cfg.PostsPerSubreddit = envInt("POSTS_PER_SUBREDDIT", 100)
	cfg.CommentPosts = envInt("COMMENT_POSTS", 10)
	cfg.TweetsPerKeyword = envInt("TWEETS_PER_KEYWORD", 100)
	cfg.SentimentBatchSize = envInt("SENTIMENT_BATCH_SIZE", 24)

	cfg.RedditUserAgent = strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT"))

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
