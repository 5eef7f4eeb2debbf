package game

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// SocketConn is the raw transport under one player. Implemented by the
// gorilla adapter in handlers.go, mocked in tests.
type SocketConn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

const sendBufferSize = 256

// Player runs the two pumps for one connection and owns its send buffer.
// Inbound frames are enveloped and handed to the hub; outbound delivery is
// fire-and-forget, a slow consumer drops frames instead of stalling the hub.
type Player struct {
	id    string
	name  string
	color string

	socket  SocketConn
	limiter *rate.Limiter

	send     chan []byte
	pingChan chan struct{}
	done     chan struct{}
	once     sync.Once

	inbox    chan<- envelope
	removals chan<- *Player
}

func NewPlayer(id string, profile JoinPayload, socket SocketConn, inbox chan<- envelope, removals chan<- *Player) *Player {
	return &Player{
		id:       id,
		name:     profile.Name,
		color:    profile.Color,
		socket:   socket,
		limiter:  rate.NewLimiter(2, 8),
		send:     make(chan []byte, sendBufferSize),
		pingChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
		inbox:    inbox,
		removals: removals,
	}
}

func (p *Player) Name() string {
	return p.name
}

// Send queues one frame without blocking. The error is informational only,
// the caller logs a count and keeps fanning out.
func (p *Player) Send(data []byte) error {
	select {
	case <-p.done:
		return ErrPeerGone
	default:
	}
	select {
	case p.send <- data:
		return nil
	default:
		return ErrSlowConsumer
	}
}

func (p *Player) Ping() error {
	select {
	case <-p.done:
		return ErrPeerGone
	default:
	}
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease tears the connection down. Idempotent; safe to call from
// the hub while the pumps are still running.
func (p *Player) CancelAndRelease() {
	p.once.Do(func() {
		close(p.done)
		p.socket.Close("")
	})
}

// isControlAction reports whether a message type counts against the
// per-connection rate limit. Stroke traffic is exempt: drawing is high
// frequency by nature.
func isControlAction(msgType string) bool {
	switch msgType {
	case MsgChat, MsgCorrectGuess, MsgStartGame, MsgEndGame, MsgClearCanvas:
		return true
	}
	return false
}

// ReadPump forwards inbound frames to the hub until the socket dies, then
// requests its own removal. Malformed frames are dropped, never fatal.
func (p *Player) ReadPump() {
	defer func() {
		p.CancelAndRelease()
		p.removals <- p
	}()

	for {
		data, err := p.socket.Read()
		if err != nil {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Str("player", p.name).Err(err).Msg("malformed frame dropped")
			continue
		}

		if isControlAction(msg.Type) && !p.limiter.Allow() {
			log.Warn().Str("player", p.name).Str("type", msg.Type).Msg("rate limited")
			continue
		}

		select {
		case p.inbox <- envelope{from: p, msg: msg}:
		case <-p.done:
			return
		}
	}
}

// WritePump drains the send buffer onto the socket.
func (p *Player) WritePump() {
	for {
		select {
		case <-p.done:
			return
		case data := <-p.send:
			if err := p.socket.Write(data); err != nil {
				p.CancelAndRelease()
				return
			}
		case <-p.pingChan:
			if err := p.socket.Ping(); err != nil {
				p.CancelAndRelease()
				return
			}
		}
	}
}
