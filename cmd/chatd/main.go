// chatd is the client-intelligence chat service for the storefront. It
// serves the /api/chat endpoint the chat widget talks to, maintaining a
// per-session client profile and adapting the sales strategy turn by turn.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lumenfield/clientintel/internal/intel"
	"github.com/lumenfield/clientintel/internal/intel/provider"
	"github.com/lumenfield/clientintel/internal/server"
	"github.com/lumenfield/clientintel/internal/session"
	"github.com/lumenfield/clientintel/internal/webtext"
)

func main() {
	_ = godotenv.Load()

	cfg, err := configFromEnv(lookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	completer := provider.NewClient(cfg.APIKey, cfg.CallTimeout, cfg.MaxAttempts)
	fetcher := webtext.NewFetcher(cfg.FetchTimeout)
	analyzer := intel.NewSentimentAnalyzer(completer, cfg.IntelModel, sugar)
	profiler := intel.NewCompanyProfiler(completer, fetcher, cfg.IntelModel, cfg.SessionTTL, sugar)

	var store session.Store
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			sugar.Fatalw("redis unavailable", "addr", cfg.RedisAddr, "err", err)
		}
		defer rs.Close()
		store = rs
		sugar.Infow("session store: redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	} else {
		ms := session.NewMemoryStore(cfg.SessionTTL)
		defer ms.Close()
		store = ms
		sugar.Infow("session store: in-memory", "ttl", cfg.SessionTTL)
	}

	if strings.EqualFold(cfg.Env, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	svc := server.New(store, analyzer, profiler, completer, cfg.ChatModel, sugar)
	svc.Register(router)

	sugar.Infow("chatd listening", "port", cfg.Port, "chat_model", cfg.ChatModel, "intel_model", cfg.IntelModel)
	if err := router.Run(":" + cfg.Port); err != nil {
		sugar.Fatalw("server exited", "err", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
