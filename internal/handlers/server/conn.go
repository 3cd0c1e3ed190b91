package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Conn is one websocket client. Reads happen on the goroutine that called
// readPump, writes only from writePump.
type Conn struct {
	ID string

	// roomID is the room this client joined; only the read goroutine touches it
	roomID string

	ws      *websocket.Conn
	limiter *rate.Limiter
	send    chan []byte
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	log     zerolog.Logger
}

func newConn(id string, ws *websocket.Conn, limiter *rate.Limiter, log zerolog.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	return &Conn{
		ID:      id,
		ws:      ws,
		limiter: limiter,
		send:    make(chan []byte, sendBuffer),
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With().Str("connection_id", id).Logger(),
	}
}

// enqueue queues msg for writing. A client that cannot keep up is dropped.
func (c *Conn) enqueue(msg []byte) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		c.log.Warn().Msg("send buffer full, closing connection")
		c.close()
		return false
	}
}

// reply queues an envelope for this connection only
func (c *Conn) reply(env any) {
	msg, err := json.Marshal(env)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode reply")
		return
	}
	c.enqueue(msg)
}

func (c *Conn) close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.ws.Close()
	})
}

// readPump decodes envelopes until the socket fails. Events over the rate
// limit go to throttled instead of handle.
func (c *Conn) readPump(handle, throttled func(*Inbound)) {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.log.Warn().Err(err).Msg("invalid message")
			continue
		}

		if !c.limiter.Allow() {
			throttled(&in)
			continue
		}
		handle(&in)
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}
