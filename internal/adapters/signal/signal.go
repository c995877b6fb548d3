// Package signal is the WebSocket adapter: it owns the transport and the
// per-connection pumps, and hands decoded events to the gateway.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/app"
	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/identity"
)

var ErrBackpressure = errors.New("backpressure")

// Controller upgrades authenticated requests and runs one session per
// connection until the transport closes.
type Controller struct {
	Gateway    *app.Gateway
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(gw *app.Gateway, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{Gateway: gw, ReadLimit: readLimit, PingPeriod: pingPeriod}
}

// WsConn adapts a gorilla connection to core.SignalConnection. Sends go
// through a buffered channel drained by the write pump; a full buffer
// drops the frame instead of stalling an event handler.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and starts the session. The auth
// middleware has already verified the credential and stored the identity;
// an unauthenticated request never reaches this point.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	user, ok := c.MustGet("identity").(identity.Identity)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	sess := ctl.Gateway.Accept(conn, user)
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}
