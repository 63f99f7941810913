package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kmuentes1145/act8/internal/application/auth"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/internal/application/usecase"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/infrastructure/events"
	"github.com/kmuentes1145/act8/pkg/logger"
)

// Banner respuesta de GET /.
const Banner = "Backend de Inventario funcionando 🚀"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	Ledger       *inventory.LedgerUseCase
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	Hub          *events.Hub // nil: sin /ws/stock
	Log          *logger.Logger
	ServiceName  string
	JWTSecret    string
	AuthRequired bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Banner)
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Auth (público)
	authGroup := app.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", OptionalAuthMiddleware(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Con AuthRequired el resto exige Bearer Token; /usuarios además rol admin.
	var guard, adminGuard []fiber.Handler
	if deps.AuthRequired {
		guard = []fiber.Handler{AuthMiddleware(deps.JWTSecret)}
		adminGuard = append(guard, RequireRole(entity.RoleAdmin))
	}

	products := app.Group("/productos", guard...)
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movimientos", productHandler.Movements)
	products.Get("/:id/conciliacion", productHandler.Reconcile)

	movements := app.Group("/movimientos", guard...)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Log)
	movements.Get("/", inventoryHandler.List)
	movements.Post("/entrada", inventoryHandler.Inbound)
	movements.Post("/salida", inventoryHandler.Outbound)

	users := app.Group("/usuarios", adminGuard...)
	userHandler := NewUserHandler(deps.UserUC, deps.Log)
	users.Get("/", userHandler.List)
	users.Delete("/:id", userHandler.Delete)

	if deps.Hub != nil {
		ws := []fiber.Handler{RequireUpgrade()}
		if deps.AuthRequired {
			ws = append(ws, QueryTokenMiddleware(deps.JWTSecret))
		}
		app.Get("/ws/stock", append(ws, StockFeed(deps.Hub))...)
	}
}

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	return id, nil
}
