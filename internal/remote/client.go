package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sharetube/town/internal/areas"
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/ctxlogger"
	"github.com/sharetube/town/pkg/validator"
	"github.com/sharetube/town/pkg/wsrouter"
)

const (
	sessionHeader = "St-Session-Id"
	writeTimeout  = 10 * time.Second
)

type iTown interface {
	Do(ctx context.Context, fn func()) error
	Initialize(snapshot domain.TownSnapshot)
	AddPlayer(player domain.Player) *domain.Player
	RemovePlayer(id string) error
	ApplyConversationArea(model domain.ConversationAreaModel) *areas.ConversationAreaController
	ApplyViewingArea(model domain.ViewingAreaModel) *areas.ViewingAreaController
}

type Config struct {
	ServerURL        string
	HandshakeTimeout time.Duration
	ReconnectDelay   time.Duration
}

// Client keeps a websocket session with the town server. Snapshots received
// from the server are applied to the town; local viewing area changes are
// sent back with SendViewingAreaUpdate.
type Client struct {
	town      iTown
	cfg       *Config
	sessionID string
	dialer    *websocket.Dialer
	validate  *validator.Validator
	router    *wsrouter.WSRouter
	logger    *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(town iTown, cfg *Config, logger *slog.Logger) *Client {
	c := &Client{
		town:      town,
		cfg:       cfg,
		sessionID: uuid.NewString(),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.router = c.getWSRouter()

	return c
}

func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

// Run connects to the server and reconnects after failures until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	funcName := "remote.Client.Run"
	ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", c.sessionID))

	for {
		err := c.connect(ctx)
		if ctx.Err() != nil {
			c.logger.DebugContext(ctx, funcName, "status", "stopped")
			return nil
		}

		c.logger.WarnContext(ctx, funcName, "error", err, "reconnect_in", c.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	funcName := "remote.Client.connect"
	header := http.Header{}
	header.Set(sessionHeader, c.sessionID)

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.ServerURL, header)
	if err != nil {
		return fmt.Errorf("failed to dial town server: %w", err)
	}
	c.setConn(conn)
	defer c.setConn(nil)
	c.logger.InfoContext(ctx, funcName, "server_url", c.cfg.ServerURL)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	if err := c.router.ServeConn(ctx, conn); err != nil {
		return fmt.Errorf("failed to serve conn: %w", err)
	}

	return nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn = conn
}

// SendViewingAreaUpdate publishes a locally changed viewing area.
func (c *Client) SendViewingAreaUpdate(ctx context.Context, model domain.ViewingAreaModel) error {
	return c.send(ctx, &Output{
		Type:    typeUpdateViewingArea,
		Payload: model,
	})
}

func (c *Client) send(ctx context.Context, output *Output) error {
	funcName := "remote.Client.send"
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return domain.ErrNotConnected
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := c.conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output.Type, err)
	}

	c.logger.DebugContext(ctx, funcName, "type", output.Type)
	return nil
}
