package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/kmuentes1145/act8/internal/infrastructure/events"
)

// RequireUpgrade responde 426 a lo que no sea un handshake websocket.
func RequireUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// StockFeed suscribe la conexión al hub hasta que el cliente se va o el hub se detiene.
// Los mensajes entrantes se ignoran; el canal es solo de servidor a cliente.
// El handler no vuelve hasta que lector y escritor terminaron: fiber recicla conn después.
func StockFeed(hub *events.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		hub.Serve(conn, done)
		_ = conn.Close()
		<-done
	})
}
