package apperror

import "errors"

var (
	ErrMissingWebSocketKey  = errors.New("missing Sec-WebSocket-Key header")
	ErrUnknownMessageType   = errors.New("unknown message type")
	ErrClientNotFound       = errors.New("client not found")
	ErrPlayerNotInitialized = errors.New("player is not initialized")
)
