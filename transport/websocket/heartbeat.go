package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	idlePingInterval = 30 * time.Second
	writeWait        = 10 * time.Second
)

// writeWithHeartbeat writes queued messages and a ping message when the connection was idle
// for a full interval. It returns when done is closed or a write fails.
func writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastWrite := time.Now()
	pingPayload := mustMarshal(Message{Action: actionPing})

	write := func(msg []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return err
		}

		lastWrite = time.Now()

		return nil
	}

	for {
		select {
		case <-done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return nil
		case msg := <-send:
			if err := write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}

			if err := write(pingPayload); err != nil {
				return err
			}
		}
	}
}
