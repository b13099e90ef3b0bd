package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"FreshmanRoll/internal/director"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	updateRateHz = 20.0 // per-client event flushes
	maxPending   = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type liveConn struct {
	id       string
	conn     *websocket.Conn
	sendTick *time.Ticker
	proto    bool

	mu      sync.Mutex
	pending []director.Event
}

func (c *liveConn) queue(events ...director.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, events...)
	if len(c.pending) > maxPending {
		var dropped int
		c.pending, dropped = trimPending(c.pending, maxPending)
		log.Printf("[ws] client %s too slow, dropping %d events", c.id, dropped)
	}
}

// trimPending cuts pending down to limit. The oldest beat and status frames
// go first; ending, unlock and close frames are dropped only if nothing
// else is left to drop.
func trimPending(pending []director.Event, limit int) ([]director.Event, int) {
	over := len(pending) - limit
	if over <= 0 {
		return pending, 0
	}
	dropped := 0
	kept := make([]director.Event, 0, limit)
	for _, ev := range pending {
		if dropped < over && (ev.Type == director.EventBeat || ev.Type == eventSession) {
			dropped++
			continue
		}
		kept = append(kept, ev)
	}
	if extra := len(kept) - limit; extra > 0 {
		kept = append([]director.Event(nil), kept[extra:]...)
		dropped += extra
	}
	return kept, dropped
}

func (c *liveConn) drain() []director.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}

func (c *liveConn) send(ev director.Event) error {
	if c.proto {
		return sendProtoEvent(c.conn, ev)
	}
	return c.conn.WriteJSON(ev)
}

func serveWS(s *Stage, w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	lc := &liveConn{
		id:       uuid.NewString(),
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(float64(time.Second) / updateRateHz)),
		proto:    format == "proto",
	}
	s.attach(lc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var inbound inboundMessage
			switch msgType {
			case websocket.BinaryMessage:
				inbound, err = inboundFromProto(data)
				if err != nil {
					log.Printf("[ws] client %s: %v", lc.id, err)
					continue
				}
			case websocket.TextMessage:
				if err := json.Unmarshal(data, &inbound); err != nil {
					log.Printf("[ws] client %s: invalid JSON message: %v", lc.id, err)
					continue
				}
			default:
				log.Printf("[ws] client %s: unsupported message type %d", lc.id, msgType)
				continue
			}

			cmd, err := commandFromInbound(inbound)
			if err != nil {
				log.Printf("[ws] client %s: %v", lc.id, err)
				continue
			}
			s.Enqueue(cmd)
		}
	}()

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-lc.sendTick.C:
				for _, ev := range lc.drain() {
					if err := lc.send(ev); err != nil {
						log.Printf("[ws] client %s: send %s: %v", lc.id, ev.Type, err)
						return
					}
				}
			}
		}
	}()

	<-ctx.Done()
	lc.sendTick.Stop()
	conn.Close()
	s.removeClient(lc)
}
