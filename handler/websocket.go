package handler

import (
	"context"
	"sync"

	"bus_ticketing/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

var (
	viewers = make(map[string]int)
	mu      sync.Mutex
)

func trackViewer(stationSlug string, delta int) int {
	mu.Lock()
	defer mu.Unlock()
	viewers[stationSlug] += delta
	if viewers[stationSlug] <= 0 {
		delete(viewers, stationSlug)
		return 0
	}
	return viewers[stationSlug]
}

// UpgradeOnly rejects plain HTTP requests on websocket routes.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// StationQueueLive sends the current queue of a station, then forwards every
// queue event published for it until the client disconnects.
func (h *Handler) StationQueueLive(c *websocket.Conn) {
	stationSlug := stationParam(c.Params("stationName"))
	ctx, cancel := context.WithCancel(context.Background())

	logger.Log.Debug("[QUEUE] viewer joined", "station", stationSlug, "viewers", trackViewer(stationSlug, 1))
	defer func() {
		cancel()
		trackViewer(stationSlug, -1)
		c.Close()
	}()

	entries, err := h.Stations.Queue(ctx, stationSlug)
	if err != nil {
		logger.Log.Error("[QUEUE] load snapshot", "station", stationSlug, "error", err)
		return
	}
	if err := c.WriteJSON(map[string]any{"action": "snapshot", "stationSlug": stationSlug, "entries": entries}); err != nil {
		return
	}

	// The read loop only detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.Queue.Enabled() {
		<-ctx.Done()
		return
	}

	pubsub, err := h.Queue.Subscribe(ctx, stationSlug)
	if err != nil {
		logger.Log.Error("[QUEUE] subscribe", "station", stationSlug, "error", err)
		return
	}
	defer pubsub.Close()

	channel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
