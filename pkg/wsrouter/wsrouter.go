package wsrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler handles the raw payload of a routed message.
type Handler func(ctx context.Context, payload json.RawMessage) error

// HandlerFunc handles a payload decoded into T. A missing or null payload is
// passed as the zero T.
type HandlerFunc[T any] func(ctx context.Context, payload T) error

type Middleware func(next Handler) Handler

// ErrorHandlerFunc is called for every message that could not be handled.
// The connection keeps being served afterwards.
type ErrorHandlerFunc func(ctx context.Context, err error)

type WSRouter struct {
	routes      map[string]Handler
	middlewares []Middleware
	onError     ErrorHandlerFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes:  make(map[string]Handler),
		onError: func(context.Context, error) {},
	}
}

// Use appends middlewares. They wrap every route, the first one outermost.
func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) OnError(fn ErrorHandlerFunc) {
	r.onError = fn
}

func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, payload json.RawMessage) error {
		var input T
		if len(payload) != 0 && !bytes.Equal(payload, []byte("null")) {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}

		return handler(ctx, input)
	}
}

func (r *WSRouter) route(messageType string) Handler {
	handler, ok := r.routes[messageType]
	if !ok {
		handler = func(context.Context, json.RawMessage) error {
			return fmt.Errorf("%w: %q", ErrUnknownMessageType, messageType)
		}
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return handler
}

// ServeConn dispatches messages read from conn until reading fails, and
// returns that error. The caller owns conn.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			r.onError(ctx, ErrMalformedMessage)
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := r.route(msg.Type)(msgCtx, msg.Payload); err != nil {
			r.onError(msgCtx, err)
		}
	}
}
