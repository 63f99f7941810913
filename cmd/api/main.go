package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	_ "github.com/kmuentes1145/act8/docs"
	"github.com/kmuentes1145/act8/internal/application/auth"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/internal/application/usecase"
	"github.com/kmuentes1145/act8/internal/domain/repository"
	"github.com/kmuentes1145/act8/internal/infrastructure/events"
	"github.com/kmuentes1145/act8/internal/infrastructure/memory"
	"github.com/kmuentes1145/act8/internal/infrastructure/postgres"
	httpRouter "github.com/kmuentes1145/act8/internal/interfaces/http"
	"github.com/kmuentes1145/act8/pkg/config"
	"github.com/kmuentes1145/act8/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios del driver elegido más su cierre.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	users     repository.UserRepository
	txRunner  inventory.TxRunner
	close     func()
}

// @title        Inventario API
// @version      1.0
// @description  Productos, movimientos de inventario y cuentas de usuario.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Eventos de stock: hub local y, si hay Redis, difusión entre réplicas.
	hub := events.NewHub(log)
	go hub.Run(ctx)
	var publisher inventory.EventPublisher = hub
	if cfg.Redis.Enabled() {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		broker := events.NewRedisBroker(rdb, cfg.Redis.Channel, hub, log)
		go func() {
			if err := broker.Run(ctx); err != nil {
				log.Error().Err(err).Msg("suscripción Redis finalizada")
			}
		}()
		publisher = broker
	}

	productUC := usecase.NewProductUseCase(store.products)
	ledgerUC := inventory.NewLedgerUseCase(store.txRunner, store.movements, store.products, publisher)
	userUC := usecase.NewUserUseCase(store.users)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario API",
		}))
	}
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		Ledger:       ledgerUC,
		AuthUC:       authUC,
		UserUC:       userUC,
		Hub:          hub,
		Log:          log,
		ServiceName:  cfg.App.Name,
		JWTSecret:    cfg.JWT.Secret,
		AuthRequired: cfg.HTTP.AuthRequired,
	})
	if !cfg.HTTP.AuthRequired {
		log.Warn().Msg("HTTP_AUTH_REQUIRED=false: rutas de productos, movimientos y usuarios sin autenticación")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products:  memory.NewProductRepository(s),
			movements: memory.NewMovementRepository(s),
			users:     memory.NewUserRepository(s),
			txRunner:  memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		users:     postgres.NewUserRepository(pool),
		txRunner:  postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
