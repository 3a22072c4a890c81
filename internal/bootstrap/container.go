package bootstrap

import (
	"context"
	"fmt"
	"time"

	"voice-notes-be/internal/config"
	"voice-notes-be/internal/controller"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/pkg/serverutils"
	"voice-notes-be/internal/repository/memory"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/internal/service"
	"voice-notes-be/pkg/audiostore"
	"voice-notes-be/pkg/llm"
	"voice-notes-be/pkg/llm/factory"
	"voice-notes-be/pkg/metrics"
	pktNats "voice-notes-be/pkg/nats"
	"voice-notes-be/pkg/ratelimit"
	"voice-notes-be/pkg/token"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const noteEventsTopic = "note-events"

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	NoteController controller.INoteController
	AIController   controller.IAIController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger          logger.ILogger
	MetricsRegistry *prometheus.Registry

	collector metrics.MetricsCollector
	closers   []func()
}

// NewContainer wires every dependency. A nil db selects the in-memory store.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Persistence
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("Bootstrap", "using in-memory store, data is lost on restart", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}

	// 2. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.MetricsRegistry = registry
	c.collector = metrics.NewCollector(registry)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, note events stay in process", map[string]interface{}{"error": err})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. AI Providers
	providers, err := factory.NewProviders(factory.Config{
		Provider:           cfg.Ai.Provider,
		APIKey:             cfg.Ai.APIKey,
		BaseURL:            cfg.Ai.BaseURL,
		SummaryModel:       cfg.Ai.SummaryModel,
		TranscriptionModel: cfg.Ai.TranscriptionModel,
	})
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "AI provider ready", map[string]interface{}{
		"provider": cfg.Ai.Provider,
		"model":    cfg.Ai.SummaryModel,
	})

	// 5. Audio Archive
	audioStore, err := newAudioStore(ctx, cfg.Audio)
	if err != nil {
		return nil, err
	}

	// 6. Services
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userCache := cache.New(5*time.Minute, 10*time.Minute)

	publisherService := service.NewPublisherService(noteEventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, noteEventsTopic, uowFactory, forwarder, sysLogger, c.collector)

	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		llm.NewSummarizer(providers.Chat),
		sysLogger,
		c.collector,
		service.NoteServiceOptions{
			AITimeout:      cfg.Ai.Timeout,
			RelevanceFloor: cfg.Search.RelevanceFloor,
		},
	)
	authService := service.NewAuthService(uowFactory, tokens, userCache, sysLogger)
	aiService := service.NewAIService(providers.Transcriber, noteService, publisherService, audioStore, sysLogger, c.collector, cfg.Ai.Timeout)

	// 7. Controllers
	jwtMiddleware := serverutils.NewJwtMiddleware(tokens)
	var rateLimiter fiber.Handler
	if cfg.Ai.RateLimitPerMinute > 0 {
		rateLimiter = serverutils.NewRateLimitMiddleware(c.newLimiter(ctx, cfg), sysLogger)
	}

	c.AuthController = controller.NewAuthController(authService, jwtMiddleware)
	c.NoteController = controller.NewNoteController(noteService, jwtMiddleware)
	c.AIController = controller.NewAIController(aiService, jwtMiddleware, rateLimiter)

	return c, nil
}

// Collector is the request metrics sink used by the HTTP layer.
func (c *Container) Collector() metrics.MetricsCollector {
	return c.collector
}

// Close releases background resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Container) newLimiter(ctx context.Context, cfg *config.Config) ratelimit.Limiter {
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			c.Logger.Warn("Bootstrap", "invalid Redis URL, using direct Addr", map[string]interface{}{"error": err})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.Logger.Warn("Bootstrap", "Redis unavailable, using local rate limiter", map[string]interface{}{"error": err})
			_ = rdb.Close()
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			return ratelimit.NewRedisLimiter(rdb, cfg.Ai.RateLimitPerMinute)
		}
	}

	local := ratelimit.NewLocalLimiter(ratelimit.Config{PerMinute: cfg.Ai.RateLimitPerMinute})
	c.closers = append(c.closers, local.Stop)
	return local
}

func newAudioStore(ctx context.Context, cfg config.AudioConfig) (audiostore.Store, error) {
	switch cfg.Storage {
	case config.AudioStorageLocal:
		return audiostore.NewLocalStore(cfg.LocalDir)
	case config.AudioStorageS3:
		return audiostore.NewS3Store(ctx, audiostore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case config.AudioStorageNone, "":
		return audiostore.Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported audio storage: %s", cfg.Storage)
	}
}
