package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/arena-backend/internal/apperror"
	"github.com/rocketscienceinc/arena-backend/internal/arena"
)

const (
	readChunkSize   = 4096
	shutdownTimeout = 5 * time.Second
)

type gameHub interface {
	Join(writer arena.MessageWriter) int
	Leave(id int)
	HandleMessage(id int, payload []byte)
}

type Server struct {
	logger *slog.Logger
	hub    gameHub
}

func New(logger *slog.Logger, hub gameHub) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
	}
}

// Start - registers the WebSocket endpoint on mux and serves it until the
// context is canceled. The game endpoint and the plain HTTP handlers share
// the single configured port.
func (that *Server) Start(ctx context.Context, port string, mux *http.ServeMux) error {
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and runs its
// read loop. A request without the Sec-WebSocket-Key header is rejected
// with 400 and never registered.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	if key == "" {
		log.Debug("rejecting handshake", "error", apperror.ErrMissingWebSocketKey)
		http.Error(writer, apperror.ErrMissingWebSocketKey.Error(), http.StatusBadRequest)
		return
	}

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", GenerateAcceptKey(key))
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	// the server's header timeout no longer applies; the connection lives
	// until the peer closes or the transport fails
	_ = conn.SetDeadline(time.Time{})

	id := that.hub.Join(newConn(conn, bufrw))
	defer that.hub.Leave(id)

	log.Info("WebSocket connection established", "id", id)

	that.readLoop(id, bufrw.Reader)
}

// readLoop feeds inbound bytes through the frame decoder until the
// transport drops. Reads may deliver partial or coalesced frames; the
// undecoded tail stays buffered across reads, and after each successful
// extraction the consumed prefix is dropped. Only text frames reach the
// hub; other opcodes are silently discarded (no ping/pong/close handling,
// a known protocol gap).
func (that *Server) readLoop(id int, reader io.Reader) {
	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := reader.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)

			for {
				frameData, consumed, ok := decodeFrame(buf)
				if !ok {
					break
				}
				buf = buf[consumed:]

				if frameData.opCode != opText {
					continue
				}

				that.hub.HandleMessage(id, frameData.payload)
			}
		}

		if err != nil {
			that.logger.Debug("connection read ended", "id", id, "error", err)
			return
		}
	}
}
