package events

import (
	"context"
	"sync"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/tasktrack/internal/common/logger"
)

// Client is one websocket connection of an owner. The feed is push-only;
// inbound frames other than control frames are read and discarded.
type Client struct {
	ctx       context.Context
	hub       *Hub
	conn      *gorillaWS.Conn
	owner     string
	send      chan []byte
	cfg       HubConfig
	log       *logger.Logger
	closeOnce sync.Once
}

// NewClient binds conn to owner. ctx supplies the trace id for log entries and
// may already be cancelled.
func NewClient(ctx context.Context, hub *Hub, conn *gorillaWS.Conn, owner string, log *logger.Logger) *Client {
	return &Client{
		ctx:   context.WithoutCancel(ctx),
		hub:   hub,
		conn:  conn,
		owner: owner,
		send:  make(chan []byte, hub.cfg.SendBufferSize),
		cfg:   hub.cfg,
		log:   log,
	}
}

// Start registers the client and runs its pumps. It returns false when the hub
// has already shut down.
func (c *Client) Start() bool {
	if !c.hub.Register(c) {
		c.Close()
		return false
	}
	go c.writePump()
	go c.readPump()
	return true
}

// Close drops the underlying connection; the read pump then unregisters the client.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseNormalClosure) {
				c.log.WithFields(c.ctx, logger.Fields{
					"owner":  c.owner,
					"action": "ws_read_error",
				}).Debugf("websocket read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(gorillaWS.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
