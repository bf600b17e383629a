package dashboardHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// handleStream pushes the current snapshot on connect and every newer one
// after it. Display clients never write; reading only detects their close.
func (h *DashboardHandler) handleStream(c *websocket.Conn) {
	updates, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.log.WithFields(logrus.Fields{
		"remote": c.RemoteAddr().String(),
	}).Info("Display client connected to snapshot stream")
	defer h.log.Info("Display client left snapshot stream")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case snap := <-updates:
			if err := c.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				h.log.WithFields(logrus.Fields{
					"version": snap.Version,
					"error":   err.Error(),
				}).Error("Failed to encode snapshot")
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(logrus.Fields{
						"error": err.Error(),
					}).Warn("Snapshot stream write failed")
				}
				return
			}
		}
	}
}
