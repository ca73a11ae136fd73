package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/config"
	"marketplace-admin/internal/controller"
	"marketplace-admin/internal/logger"
	"marketplace-admin/internal/notify"
	"marketplace-admin/internal/rabbit"
	"marketplace-admin/internal/repository"
	"marketplace-admin/internal/router"
	"marketplace-admin/internal/service"
)

const connectTimeout = 10 * time.Second

// Module arma la aplicación completa: infraestructura, servicios, HTTP y el consumer.
var Module = fx.Options(
	fx.Provide(
		config.Load,
		newLogger,
		newMongo,
		newRabbit,
		newRepositories,
		newBlobStore,
		newDispatcher,
		newServices,
		newControllers,
		newRouter,
		newHTTPServer,
		newConsumer,
	),
	fx.Invoke(registerLifecycle),
)

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.LogLevel)
}

type mongoParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newMongo(p mongoParams) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.Config.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("disconnecting mongo")
			return client.Disconnect(ctx)
		},
	})
	return client.Database(p.Config.MongoDBName), nil
}

type rabbitParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
}

func newRabbit(p rabbitParams) (*amqp091.Channel, error) {
	conn, err := amqp091.Dial(p.Config.RabbitURL)
	if err != nil {
		return nil, fmt.Errorf("conectando a RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("creando canal en RabbitMQ: %w", err)
	}
	if err := rabbit.SetupQueues(ch, p.Config.NotifyQueue); err != nil {
		_ = conn.Close()
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = ch.Close()
			return conn.Close()
		},
	})
	return ch, nil
}

type repositories struct {
	fx.Out

	Orders      *repository.MongoOrderRepository
	Businesses  *repository.MongoBusinessRepository
	Categories  *repository.MongoCategoryRepository
	Products    *repository.MongoProductRepository
	Modifiers   *repository.MongoModifierRepository
	Marketplace *repository.MongoMarketplaceRepository
	People      *repository.MongoPeopleRepository
}

func newRepositories(db *mongo.Database) repositories {
	return repositories{
		Orders:      repository.NewMongoOrderRepository(db),
		Businesses:  repository.NewMongoBusinessRepository(db),
		Categories:  repository.NewMongoCategoryRepository(db),
		Products:    repository.NewMongoProductRepository(db),
		Modifiers:   repository.NewMongoModifierRepository(db),
		Marketplace: repository.NewMongoMarketplaceRepository(db),
		People:      repository.NewMongoPeopleRepository(db),
	}
}

func newBlobStore(db *mongo.Database, cfg *config.Config) (*blob.GridFSStore, error) {
	return blob.NewGridFSStore(db, cfg.PublicBaseURL)
}

type dispatcherParams struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	Businesses *repository.MongoBusinessRepository
	People     *repository.MongoPeopleRepository
}

// newDispatcher junta los canales configurados: functions HTTP y/o Telegram.
func newDispatcher(p dispatcherParams) (notify.Dispatcher, error) {
	var out notify.Multi
	if p.Config.FunctionsURL != "" {
		out = append(out, notify.NewFunctionsClient(p.Config.FunctionsURL, p.Config.RequestTimeout))
	}
	if p.Config.TelegramToken != "" {
		bot, err := tgbotapi.NewBotAPI(p.Config.TelegramToken)
		if err != nil {
			return nil, fmt.Errorf("telegram bot: %w", err)
		}
		out = append(out, notify.NewTelegram(bot, p.Businesses, p.People, p.Logger))
	}
	if len(out) == 0 {
		p.Logger.Warn("no notification channel configured, notifications will be dropped")
	}
	return out, nil
}

type serviceParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Blobs       *blob.GridFSStore
	Channel     *amqp091.Channel
	Orders      *repository.MongoOrderRepository
	Businesses  *repository.MongoBusinessRepository
	Categories  *repository.MongoCategoryRepository
	Products    *repository.MongoProductRepository
	Modifiers   *repository.MongoModifierRepository
	Marketplace *repository.MongoMarketplaceRepository
	People      *repository.MongoPeopleRepository
}

type services struct {
	fx.Out

	Auth        *service.AuthService
	Orders      *service.OrderService
	Businesses  *service.BusinessService
	Categories  *service.CategoryService
	Products    *service.ProductService
	Modifiers   *service.ModifierService
	Marketplace *service.MarketplaceService
}

func newServices(p serviceParams) services {
	outbox := rabbit.NewOutbox(p.Channel, p.Config.NotifyQueue)
	return services{
		Auth:        service.NewAuthService(p.Config.AuthURL, p.Config.RequestTimeout),
		Orders:      service.NewOrderService(p.Orders, p.People, p.Products, outbox, p.Logger),
		Businesses:  service.NewBusinessService(p.Businesses, p.Blobs, p.Logger),
		Categories:  service.NewCategoryService(p.Categories, p.Businesses, p.Blobs, p.Logger),
		Products:    service.NewProductService(p.Products, p.Businesses, p.Categories, p.Blobs, p.Logger),
		Modifiers:   service.NewModifierService(p.Modifiers, p.Blobs, p.Logger),
		Marketplace: service.NewMarketplaceService(p.Marketplace, p.People, p.Blobs, p.Logger),
	}
}

type controllerParams struct {
	fx.In

	Logger      *slog.Logger
	Blobs       *blob.GridFSStore
	Orders      *service.OrderService
	Businesses  *service.BusinessService
	Categories  *service.CategoryService
	Products    *service.ProductService
	Modifiers   *service.ModifierService
	Marketplace *service.MarketplaceService
}

func newControllers(p controllerParams) router.Controllers {
	return router.Controllers{
		Orders:      controller.NewOrderController(p.Orders, p.Logger),
		Businesses:  controller.NewBusinessController(p.Businesses, p.Logger),
		Catalog:     controller.NewCatalogController(p.Categories, p.Products, p.Modifiers, p.Logger),
		Marketplace: controller.NewMarketplaceController(p.Marketplace, p.Logger),
		Files:       controller.NewFileController(p.Blobs, p.Logger),
	}
}

func newRouter(ctl router.Controllers, auth *service.AuthService, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return router.New(ctl, auth, log)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: p.Config.RequestTimeout,
	}
}

func newConsumer(ch *amqp091.Channel, d notify.Dispatcher, cfg *config.Config, log *slog.Logger) *rabbit.NotificationConsumer {
	return rabbit.NewNotificationConsumer(ch, d, cfg.NotifyQueue, cfg.NotifyAttempts, log)
}

// Runner es lo que el lifecycle necesita del consumer.
type Runner interface {
	Run(ctx context.Context) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Consumer   *rabbit.NotificationConsumer
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	register(p.Lifecycle, p.Shutdowner, p.Logger, p.Server, p.Consumer, p.Config.ShutdownTimeout)
}

func register(lc fx.Lifecycle, sd fx.Shutdowner, log *slog.Logger, server *http.Server, consumer Runner, shutdownTimeout time.Duration) {
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting marketplace-admin", slog.String("addr", server.Addr))
			go func() {
				defer close(consumerDone)
				if err := consumer.Run(consumerCtx); err != nil {
					log.Error("notification consumer stopped", slog.String("error", err.Error()))
				}
			}()
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server terminated", slog.String("error", err.Error()))
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, shutdownTimeout)
			}
			defer cancel()

			err := server.Shutdown(shutdownCtx)
			stopConsumer()
			select {
			case <-consumerDone:
			case <-shutdownCtx.Done():
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("marketplace-admin stopped")
			return nil
		},
	})
}
