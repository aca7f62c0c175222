package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	config "github.com/davicafu/alpesui/internal/config"
	queryApp "github.com/davicafu/alpesui/internal/query/application"
	queryGraphQL "github.com/davicafu/alpesui/internal/query/infra/outbound/graphql"
	sharedBus "github.com/davicafu/alpesui/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/alpesui/internal/shared/infra/platform/cache"
	streamApp "github.com/davicafu/alpesui/internal/stream/application"
	streamEvents "github.com/davicafu/alpesui/internal/stream/infra/inbound/events"
	streamSSE "github.com/davicafu/alpesui/internal/stream/infra/inbound/sse"
	uiHttp "github.com/davicafu/alpesui/internal/ui/infra/inbound/http"
	viewApp "github.com/davicafu/alpesui/internal/view/application"
	viewStore "github.com/davicafu/alpesui/internal/view/infra/outbound/store"
	"github.com/davicafu/alpesui/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logger.Init("info")
	} else {
		logger.Init(cfg.LogLevel)
	}
	log := logger.Logger()
	defer log.Sync()

	if cfgErr != nil {
		log.Fatal("failed to load config", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- Cache + Hub ----------------
	var cacheInstance sharedCache.Store
	var hub sharedBus.Hub

	var rdb *redis.Client
	if cfg.UseRedis {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("⚠️ Redis no disponible, estado de vista en memoria", zap.Error(err))
			rdb = nil
		}
	}

	if rdb != nil {
		defer rdb.Close()
		cacheInstance = sharedCache.NewRedisCache(rdb, cfg.SessionTTL)
		hub = sharedBus.NewRedisHub(rdb, cfg.FeedChannel, logger.Named("hub"))
		log.Info("✅ Redis conectado, sesiones y feed compartidos", zap.String("channel", cfg.FeedChannel))
	} else {
		mem := sharedCache.NewInMemoryCache(cfg.SessionTTL, cfg.SessionTTL/3)
		defer mem.Stop()
		cacheInstance = mem

		hubLog := logger.Named("hub")
		hub = sharedBus.NewInMemoryHub(func(m sharedBus.Message) {
			hubLog.Warn("Suscriptor lento, mensaje descartado", zap.String("id", m.ID), zap.String("kind", m.Kind))
		})
		log.Info("⚡️ Usando hub en memoria (canales de Go)")
	}

	views := viewStore.NewCacheViewStore(cacheInstance, cfg.SessionTTL)

	// --------------- Servicios --------------
	tpl, err := viewApp.NewTemplates()
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}
	table, err := viewApp.LoadSectionTable()
	if err != nil {
		log.Fatal("failed to load section table", zap.Error(err))
	}

	gqlClient := queryGraphQL.NewHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.GraphQLURL(), logger.Named("graphql"))
	queries := queryApp.NewQueryClient(gqlClient, logger.Named("query"))

	feed := viewApp.NewFeed()
	status := viewApp.NewStatusBoard(hub, tpl, logger.Named("status"))
	notifier := viewApp.NewNotifier(hub, tpl, logger.Named("notifier"))
	panels := viewApp.NewPanelService(table, tpl, views)
	forms := viewApp.NewFormService(queries, tpl, views, logger.Named("form"))
	pages := viewApp.NewPageService(tpl, panels, feed, status, views)
	sections, err := viewApp.NewSectionService(table, queries, tpl, views, logger.Named("sections"))
	if err != nil {
		log.Fatal("failed to bind sections", zap.Error(err))
	}

	go feed.Follow(ctx, hub, logger.Named("feed"))

	// ---------------- Stream ----------------
	listener := streamApp.NewListener(notifier, status, logger.Named("stream"))

	if cfg.StreamSource == config.StreamSourceKafka {
		log.Info("🚀 Usando Kafka como fuente de notificaciones", zap.String("topic", cfg.KafkaTopic))

		reader := streamEvents.NewTrackingReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		defer reader.Close()

		streamEvents.NewConsumerAdapter(reader, listener, logger.Named("kafka")).Start(ctx)
	} else {
		log.Info("🔌 Conectando al stream SSE", zap.String("url", cfg.StreamURL()))

		// sin Timeout: la conexión del stream es de larga duración
		streamSSE.NewSubscriber(&http.Client{}, cfg.StreamURL(), listener, logger.Named("sse")).Start(ctx)
	}

	// ---------------- HTTP ----------------
	handler := uiHttp.NewUIHandler(pages, panels, sections, forms, status, hub, cfg.HeartbeatTick, logger.Named("ui"))
	router := gin.Default()
	uiHttp.RegisterUIRoutes(router, handler)

	// las peticiones heredan ctx para que los relays SSE se cierren al apagar
	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		log.Info("🛑 Apagando servidor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
		zap.String("upstream", cfg.UpstreamURL),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
