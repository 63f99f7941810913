package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/pkg/logger"
)

var _ inventory.EventPublisher = (*Hub)(nil)

const (
	// broadcastBuffer mensajes pendientes antes de empezar a descartar.
	broadcastBuffer = 256
	// clientBuffer mensajes pendientes por cliente; un cliente que no los consume se desconecta.
	clientBuffer = 32
)

// Client conexión que recibe los eventos. *websocket.Conn la cumple.
type Client interface {
	WriteMessage(messageType int, data []byte) error
}

type subscriber struct {
	send chan []byte
}

// Hub difunde los eventos de stock a los clientes websocket conectados.
// Cada cliente tiene su propia cola; Run nunca escribe en una conexión.
type Hub struct {
	clients   map[*subscriber]struct{}
	broadcast chan []byte
	stopped   bool
	mu        sync.Mutex
	log       *logger.Logger
}

// NewHub crea un hub; hay que lanzar Run en una goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:   make(map[*subscriber]struct{}),
		broadcast: make(chan []byte, broadcastBuffer),
		log:       log,
	}
}

// Run reparte los mensajes encolados hasta que ctx se cancela; al salir cierra todas las colas.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for s := range h.clients {
				h.drop(s)
			}
			h.mu.Unlock()
			return

		case msg := <-h.broadcast:
			h.mu.Lock()
			for s := range h.clients {
				select {
				case s.send <- msg:
				default:
					h.log.Warn().Int("buffer", clientBuffer).Msg("ws: cliente lento descartado")
					h.drop(s)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Serve registra c y le escribe los eventos hasta que done se cierra, falla una escritura,
// el cliente se queda atrás o el hub se detiene. Al volver, el hub ya no usa c.
// Es la única goroutine que escribe en c.
func (h *Hub) Serve(c Client, done <-chan struct{}) {
	s := h.subscribe()
	if s == nil {
		return
	}
	defer h.unsubscribe(s)

	for {
		select {
		case <-done:
			return
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug().Err(err).Msg("ws: cliente descartado")
				return
			}
		}
	}
}

// subscribe devuelve nil si el hub ya se detuvo.
func (h *Hub) subscribe() *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil
	}
	s := &subscriber{send: make(chan []byte, clientBuffer)}
	h.clients[s] = struct{}{}
	h.log.Debug().Int("clients", len(h.clients)).Msg("ws: cliente conectado")
	return s
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(s)
}

// drop quita s y cierra su cola. Requiere mu.
func (h *Hub) drop(s *subscriber) {
	if _, ok := h.clients[s]; ok {
		delete(h.clients, s)
		close(s.send)
	}
}

// Broadcast encola msg para todos los clientes. Si el buffer está lleno el mensaje se descarta.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Int("buffer", broadcastBuffer).Msg("ws: buffer de difusión lleno, evento descartado")
	}
}

// PublishStock serializa el evento y lo difunde a los clientes locales.
func (h *Hub) PublishStock(_ context.Context, event dto.StockEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("ws: serializar evento")
		return
	}
	h.Broadcast(msg)
}

// ClientCount número de clientes conectados.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
