package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Cross-origin browsers are allowed; there is no auth layer.
	},
}

// Handler returns the websocket upgrade endpoint. Each connection gets a
// fresh UUID, is registered with the coordinator, and runs its own
// read/write pumps.
func Handler(coord *chat.Coordinator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			id:    uuid.NewString(),
			conn:  conn,
			send:  make(chan models.Event, sendBuffer),
			done:  make(chan struct{}),
			coord: coord,
			log:   logger,
		}
		coord.Connect(client.id, client)

		go client.writePump()
		go client.readPump()
	}
}
