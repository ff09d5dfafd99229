package arena

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/arena-backend/internal/apperror"
	"github.com/rocketscienceinc/arena-backend/internal/entity"
)

const statsWriteTimeout = 5 * time.Second

// MessageWriter is the outbound side of a connection. The transport layer
// frames the payload; the hub never sees wire bytes.
type MessageWriter interface {
	WriteText(payload []byte) error
	Close() error
}

type statsRecorder interface {
	RecordKill(ctx context.Context, killerName, victimName string) error
}

// client is one live connection. player stays nil until the connection
// completes init.
type client struct {
	id     int
	writer MessageWriter
	player *entity.Player
}

// Hub owns every connection and the canonical player state. All mutation
// happens on the single goroutine inside Run; the exported methods post a
// command onto the loop and wait for it to be applied, so callers never
// touch shared state and no locks are needed.
//
// Clients are kept in join order, which makes broadcast order and the
// first-match hit tie-break deterministic.
type Hub struct {
	logger *slog.Logger
	stats  statsRecorder

	commands chan func()
	handlers map[string]func(sender *client, payload []byte) error

	clients []*client
	nextID  int
}

// NewHub creates a hub. stats may be nil, which disables lifetime tallies.
func NewHub(logger *slog.Logger, stats statsRecorder) *Hub {
	hub := &Hub{
		logger:   logger.With("component", "arena"),
		stats:    stats,
		commands: make(chan func()),
		handlers: make(map[string]func(*client, []byte) error),
	}

	hub.handlers[msgInit] = hub.handleInit
	hub.handlers[msgUpdate] = hub.handleUpdate
	hub.handlers[msgShoot] = hub.handleShoot

	return hub
}

// Run processes commands until the context is canceled. It must be running
// before any connection joins.
func (that *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case command := <-that.commands:
			command()
		}
	}
}

// do runs fn on the hub goroutine and waits for it to finish.
func (that *Hub) do(fn func()) {
	done := make(chan struct{})
	that.commands <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// Join registers a connection, assigns the next identity and sends the
// welcome message. Identities start at 1 and are never reused within the
// process lifetime.
func (that *Hub) Join(writer MessageWriter) int {
	var id int
	that.do(func() {
		that.nextID++
		id = that.nextID

		sender := &client{id: id, writer: writer}
		that.clients = append(that.clients, sender)
		that.send(sender, welcomeMessage{Type: msgWelcome, ID: id})
	})

	that.logger.Info("connection joined", "id", id)

	return id
}

// Leave removes a connection. If it had completed init, the remaining
// connections are told via playerLeft before the transport is released.
func (that *Hub) Leave(id int) {
	that.do(func() {
		index := -1
		for i, existing := range that.clients {
			if existing.id == id {
				index = i
				break
			}
		}
		if index == -1 {
			return
		}

		leaving := that.clients[index]
		that.clients = append(that.clients[:index], that.clients[index+1:]...)

		if leaving.player != nil {
			that.broadcast(playerLeftMessage{Type: msgPlayerLeft, ID: id}, nil)
		}

		if err := leaving.writer.Close(); err != nil {
			that.logger.Debug("failed to close connection", "id", id, "error", err)
		}

		that.logger.Info("connection left", "id", id, "initialized", leaving.player != nil)
	})
}

// HandleMessage dispatches one decoded text payload from a connection.
// Malformed JSON and unknown type tags are dropped without disturbing the
// connection; availability wins over protocol strictness here.
func (that *Hub) HandleMessage(id int, payload []byte) {
	that.do(func() {
		sender := that.clientByID(id)
		if sender == nil {
			that.logger.Debug("message from unregistered connection", "id", id, "error", apperror.ErrClientNotFound)
			return
		}

		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			that.logger.Debug("dropping malformed message", "id", id, "error", err)
			return
		}

		handler, ok := that.handlers[env.Type]
		if !ok {
			that.logger.Debug("dropping message", "id", id, "type", env.Type, "error", apperror.ErrUnknownMessageType)
			return
		}

		if err := handler(sender, payload); err != nil {
			that.logger.Debug("dropping message", "id", id, "type", env.Type, "error", err)
		}
	})
}

func (that *Hub) clientByID(id int) *client {
	for _, existing := range that.clients {
		if existing.id == id {
			return existing
		}
	}
	return nil
}

// send writes one message to one connection. Write failures are logged and
// otherwise ignored: the connection's own read loop will observe the broken
// transport and trigger Leave.
func (that *Hub) send(receiver *client, message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		that.logger.Error("failed to marshal message", "error", err)
		return
	}

	if err := receiver.writer.WriteText(payload); err != nil {
		that.logger.Debug("failed to write message", "id", receiver.id, "error", err)
	}
}

// broadcast sends a message to every connection except the excluded one.
func (that *Hub) broadcast(message any, except *client) {
	for _, receiver := range that.clients {
		if receiver == except {
			continue
		}
		that.send(receiver, message)
	}
}

// recordKill persists the lifetime tally off the hub goroutine so a slow
// redis round-trip never stalls message processing.
func (that *Hub) recordKill(killerName, victimName string) {
	if that.stats == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), statsWriteTimeout)
		defer cancel()

		if err := that.stats.RecordKill(ctx, killerName, victimName); err != nil {
			that.logger.Error("failed to record kill", "killer", killerName, "victim", victimName, "error", err)
		}
	}()
}
