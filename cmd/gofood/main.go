package main

import (
	"context"
	"encoding/hex"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rookgm/gofood/config"
	"github.com/rookgm/gofood/internal/auth"
	"github.com/rookgm/gofood/internal/events"
	handler "github.com/rookgm/gofood/internal/handler/http"
	"github.com/rookgm/gofood/internal/middleware"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/repository/memory"
	"github.com/rookgm/gofood/internal/repository/mongo"
	"github.com/rookgm/gofood/internal/repository/postgres"
	"github.com/rookgm/gofood/internal/service"
	"github.com/rookgm/gofood/internal/worker"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	eventQueueSize  = 256
)

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

// storage groups repositories of one backend
type storage struct {
	users  service.UserRepository
	menu   service.MenuRepository
	orders service.OrderRepository
	close  func()
}

// openStorage connects to the configured backend
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			users:  postgres.NewUserRepository(db),
			menu:   postgres.NewMenuRepository(db),
			orders: postgres.NewOrderRepository(db),
			close:  db.Close,
		}, nil
	case config.StorageMongo:
		db, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:  mongo.NewUserRepository(db),
			menu:   mongo.NewMenuRepository(db),
			orders: mongo.NewOrderRepository(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := db.Close(ctx); err != nil {
					logger.Warn("Error closing mongo client", zap.Error(err))
				}
			},
		}, nil
	default:
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		return &storage{
			users:  store,
			menu:   store,
			orders: store,
			close:  func() {},
		}, nil
	}
}

// newPublisher connects to the configured events broker
func newPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsBroker {
	case events.BrokerNATS:
		return events.NewNATSPublisher(ctx, cfg.NATSURL, logger)
	case events.BrokerRabbitMQ:
		return events.NewRabbitMQPublisher(cfg.AMQPURL)
	default:
		return events.Noop{}, nil
	}
}

func main() {
	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize storage
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Error initializing storage", zap.Error(err), zap.String("storage", cfg.Storage))
	}
	defer store.close()

	tokenKey, err := hex.DecodeString(cfg.TokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey, cfg.TokenTTL)

	// events
	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Error connecting to events broker", zap.Error(err), zap.String("broker", cfg.EventsBroker))
	}
	defer publisher.Close()

	// dispatcher outlives the server so events of draining requests are published
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := worker.NewEventDispatcher(publisher, eventQueueSize, logger)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(dispatchCtx)
	}()

	// dependency injection
	// user
	userService := service.NewUserService(store.users, token)
	userHandler := handler.NewUserHandler(userService, logger)

	if cfg.AdminName != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("Error creating admin account", zap.Error(err))
		}
		if created {
			logger.Info("Admin account created", zap.String("name", cfg.AdminName))
		}
	}

	// menu
	menuService := service.NewMenuService(store.menu)
	menuHandler := handler.NewMenuHandler(menuService, logger)

	// order
	orderService := service.NewOrderService(store.orders, store.menu, store.users, dispatcher,
		service.OrderOptions{DispatchOnAssign: cfg.DispatchOnAssign}, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(chimiddleware.Recoverer)

	router.Post("/signup", userHandler.SignUp())
	router.Post("/login", userHandler.Login())
	router.Get("/menu", menuHandler.Menu())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/order", orderHandler.CreateOrder())
		group.Get("/orders/{orderId}", orderHandler.GetOrder())
		group.Get("/finished-orders/{orderId}", orderHandler.GetFinishedOrder())
		group.Get("/user-orders/{userId}", orderHandler.ListUserOrders())
		group.Get("/user-finished-orders/{userId}", orderHandler.ListUserFinishedOrders())
		group.Post("/user/mark-finished", orderHandler.MarkFinished())

		group.Group(func(admin chi.Router) {
			admin.Use(handler.RequireRole(models.RoleAdmin))

			admin.Get("/admin/menu", menuHandler.AllItems())
			admin.Post("/admin/create-menu-item", menuHandler.CreateItem())
			admin.Put("/admin/update-menu-item/{id}", menuHandler.UpdateItem())
			admin.Post("/admin/update-price", menuHandler.UpdatePrice())
			admin.Delete("/admin/delete-menu-item/{id}", menuHandler.DeleteItem())
			admin.Post("/admin/seed-menu", menuHandler.SeedMenu())

			admin.Post("/admin/create-user", userHandler.CreateUser())
			admin.Get("/admin/riders", userHandler.ListRiders())

			admin.Get("/admin/orders", orderHandler.ListAllOrders())
			admin.Get("/admin/finished-orders", orderHandler.ListAllFinishedOrders())
			admin.Delete("/admin/finished-orders/{orderId}", orderHandler.DeleteFinishedOrder())
			admin.Get("/admin/rider-finished-deliveries", orderHandler.ListAllRiderDeliveries())
			admin.Post("/admin/order-status", orderHandler.SetStatus())
			admin.Post("/admin/assign-rider", orderHandler.AssignRider())
		})

		group.Group(func(rider chi.Router) {
			rider.Use(handler.RequireRole(models.RoleRider, models.RoleAdmin))

			rider.Get("/rider/current-orders/{riderId}", orderHandler.ListRiderOrders())
			rider.Get("/rider/finished-orders/{riderId}", orderHandler.ListRiderDeliveries())
		})
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}

	logger.Info("Running server",
		zap.String("addr", cfg.ServerAddr),
		zap.String("storage", cfg.Storage),
		zap.String("broker", cfg.EventsBroker))

	if err := serve(ctx, server, ln, logger); err != nil {
		logger.Fatal("Error running server", zap.Error(err))
	}

	// let the dispatcher flush queued events
	stopDispatch()
	<-dispatcherDone
	logger.Info("Server stopped")
}
