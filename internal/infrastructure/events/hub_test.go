package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/infrastructure/events"
	"github.com/kmuentes1145/act8/pkg/config"
)

type fakeClient struct {
	msgs  chan []byte
	block chan struct{} // si no es nil, WriteMessage espera a que se cierre
	fail  bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{msgs: make(chan []byte, 64)}
}

func (c *fakeClient) WriteMessage(_ int, data []byte) error {
	if c.block != nil {
		<-c.block
	}
	if c.fail {
		return errors.New("conexión rota")
	}
	c.msgs <- data
	return nil
}

func receive(t *testing.T, c *fakeClient) []byte {
	t.Helper()
	select {
	case msg := <-c.msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el mensaje")
		return nil
	}
}

func startHub(t *testing.T) *events.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := events.NewHub(nil)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

// serve lanza hub.Serve y devuelve el canal para desconectar y el que avisa del fin.
func serve(hub *events.Hub, c events.Client) (disconnect chan struct{}, finished chan struct{}) {
	disconnect = make(chan struct{})
	finished = make(chan struct{})
	go func() {
		defer close(finished)
		hub.Serve(c, disconnect)
	}()
	return disconnect, finished
}

func waitClients(t *testing.T, hub *events.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 5*time.Millisecond)
}

func waitFinished(t *testing.T, finished chan struct{}) {
	t.Helper()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve no terminó")
	}
}

func TestHub_DifundeEventoDeStock(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeClient(), newFakeClient()
	serve(hub, a)
	serve(hub, b)
	waitClients(t, hub, 2)

	hub.PublishStock(context.Background(), dto.StockEvent{
		Type:        "stock_update",
		Movement:    dto.MovementResponse{ID: 1, ProductID: 7, Type: "entrada", Quantity: 5},
		StockActual: 5,
	})

	for _, c := range []*fakeClient{a, b} {
		var ev dto.StockEvent
		require.NoError(t, json.Unmarshal(receive(t, c), &ev))
		assert.Equal(t, "stock_update", ev.Type)
		assert.Equal(t, int64(7), ev.Movement.ProductID)
		assert.Equal(t, 5, ev.StockActual)
	}
}

func TestHub_DescartaClienteQueFalla(t *testing.T) {
	hub := startHub(t)
	ok, broken := newFakeClient(), newFakeClient()
	broken.fail = true
	serve(hub, ok)
	_, brokenDone := serve(hub, broken)
	waitClients(t, hub, 2)

	hub.Broadcast([]byte(`{}`))
	receive(t, ok)

	waitFinished(t, brokenDone)
	waitClients(t, hub, 1)
}

func TestHub_DesconexionLiberaCliente(t *testing.T) {
	hub := startHub(t)
	disconnect, finished := serve(hub, newFakeClient())
	waitClients(t, hub, 1)

	close(disconnect)
	waitFinished(t, finished)
	assert.Equal(t, 0, hub.ClientCount())
}

// Un cliente bloqueado en la escritura no frena a los demás ni las altas nuevas.
func TestHub_ClienteLentoNoBloquea(t *testing.T) {
	hub := startHub(t)
	slow := newFakeClient()
	slow.block = make(chan struct{})
	defer close(slow.block)
	_, slowDone := serve(hub, slow)
	fast := newFakeClient()
	serve(hub, fast)
	waitClients(t, hub, 2)

	for i := 0; i < 40; i++ {
		hub.Broadcast([]byte(`{}`))
		receive(t, fast)
	}

	// El lento se quedó atrás: el hub cerró su cola y dejó de contarlo.
	waitClients(t, hub, 1)

	late := newFakeClient()
	serve(hub, late)
	waitClients(t, hub, 2)
	hub.Broadcast([]byte(`{"n":1}`))
	assert.JSONEq(t, `{"n":1}`, string(receive(t, late)))
	assert.JSONEq(t, `{"n":1}`, string(receive(t, fast)))

	select {
	case <-slowDone:
		t.Fatal("Serve del cliente lento no debería volver mientras la escritura sigue bloqueada")
	default:
	}
}

func TestHub_AlDetenerseTerminaTodo(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := events.NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	_, finished := serve(hub, newFakeClient())
	waitClients(t, hub, 1)
	cancel()
	<-stopped
	waitFinished(t, finished)

	_, late := serve(hub, newFakeClient())
	waitFinished(t, late)
	assert.Equal(t, 0, hub.ClientCount())
}

// Requiere Redis: TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestRedisBroker_ReenviaAlHub(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := events.NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	hub := events.NewHub(nil)
	go hub.Run(ctx)
	c := newFakeClient()
	serve(hub, c)
	waitClients(t, hub, 1)

	broker := events.NewRedisBroker(rdb, "test:movimientos:"+time.Now().Format("150405.000"), hub, nil)
	go func() { _ = broker.Run(ctx) }()

	// Esperar a que la suscripción esté activa antes de publicar.
	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, broker.Channel()).Result()
		return err == nil && n[broker.Channel()] > 0
	}, 2*time.Second, 20*time.Millisecond)

	broker.PublishStock(ctx, dto.StockEvent{Type: "stock_update", StockActual: 3})
	var ev dto.StockEvent
	require.NoError(t, json.Unmarshal(receive(t, c), &ev))
	assert.Equal(t, 3, ev.StockActual)
}
