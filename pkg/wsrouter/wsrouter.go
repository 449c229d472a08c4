package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Conn is the reading half of a websocket connection.
type Conn interface {
	ReadJSON(v any) error
}

type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// ErrorFunc is called when a single message could not be handled. Reading
// continues afterwards.
type ErrorFunc func(ctx context.Context, messageType string, err error)

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorFunc
}

func New(onError ErrorFunc) *WSRouter {
	if onError == nil {
		onError = func(context.Context, string, error) {}
	}

	return &WSRouter{
		routes:  make(map[string]HandlerFunc),
		onError: onError,
	}
}

func (r *WSRouter) HandleRaw(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// Handle registers a handler whose payload is decoded into T first.
func Handle[T any](r *WSRouter, messageType string, handler func(ctx context.Context, input T) error) {
	r.HandleRaw(messageType, func(ctx context.Context, payload json.RawMessage) error {
		var input T
		if err := json.Unmarshal(payload, &input); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", messageType, err)
		}

		return handler(ctx, input)
	})
}

// Dispatch routes one message.
func (r *WSRouter) Dispatch(ctx context.Context, msg Message) error {
	handler, exists := r.routes[msg.Type]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}

	return handler(ctx, msg.Payload)
}

// ServeConn reads messages until the connection fails or ctx is done.
func (r *WSRouter) ServeConn(ctx context.Context, conn Conn) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := r.Dispatch(msgCtx, msg); err != nil {
			r.onError(msgCtx, msg.Type, err)
		}
	}
}
