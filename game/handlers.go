package game

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConnection) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn) *websocketConnection {
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return &websocketConnection{conn}
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ConnectHandler upgrades the request and waits for the join action as the
// first frame. The participant only exists once a valid profile arrives.
func (h *Handler) ConnectHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}
	socket := NewWebsocketConnection(conn)

	profile, err := readJoinProfile(socket)
	if err != nil {
		log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("join handshake failed")
		socket.Close("expected join")
		return
	}

	player := NewPlayer(uuid.NewString(), profile, socket, h.hub.inbox, h.hub.removals)
	if err := h.hub.RequestJoin(player); err != nil {
		socket.Close(err.Error())
		return
	}

	go player.ReadPump()
	go player.WritePump()
}

func readJoinProfile(socket SocketConn) (JoinPayload, error) {
	data, err := socket.Read()
	if err != nil {
		return JoinPayload{}, err
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return JoinPayload{}, err
	}
	if msg.Type != MsgJoin {
		return JoinPayload{}, ErrExpectedJoin
	}

	var profile JoinPayload
	if err := json.Unmarshal(msg.Data, &profile); err != nil {
		return JoinPayload{}, err
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return JoinPayload{}, ErrExpectedJoin
	}
	return profile, nil
}
