package game

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
)

const defaultMaxRounds = 3

type envelope struct {
	from *Player
	msg  WSMessage
}

type joinRequest struct {
	player  *Player
	profile JoinPayload
	errChan chan error
}

// Hub is the session coordinator: one goroutine owning the registry, the
// canvas history and the game state. Every mutation happens inside Run, in
// the order inbound events and ticks arrive, so no observer ever sees a
// partially updated snapshot.
type Hub struct {
	reg     *Registry
	history *History
	coord   *Coordinator
	disp    *Dispatcher

	joinRequests chan joinRequest
	removals     chan *Player
	inbox        chan envelope
	stop         chan struct{}

	tickerCreator PeriodicTickerChannelCreator
}

func NewHub(words WordPicker, tickerCreator PeriodicTickerChannelCreator, turnSeconds, graceSeconds int) *Hub {
	reg := NewRegistry()
	history := NewHistory()
	disp := NewDispatcher(reg)

	return &Hub{
		reg:           reg,
		history:       history,
		coord:         NewCoordinator(words, disp, history, turnSeconds, graceSeconds),
		disp:          disp,
		joinRequests:  make(chan joinRequest, 32),
		removals:      make(chan *Player, 64),
		inbox:         make(chan envelope, 1024),
		stop:          make(chan struct{}),
		tickerCreator: tickerCreator,
	}
}

// RequestJoin registers a configured participant and blocks until the hub
// has processed it. ErrNameTaken means the caller must drop the connection.
func (h *Hub) RequestJoin(p *Player) error {
	req := joinRequest{
		player:  p,
		profile: JoinPayload{Name: p.name, Color: p.color},
		errChan: make(chan error, 1),
	}
	select {
	case h.joinRequests <- req:
		return <-req.errChan
	case <-h.stop:
		return ErrPeerGone
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

// Run is the coordinator loop. The per-second ticker drives the game clock
// and the grace deadline; the ping ticker keeps sockets alive.
func (h *Hub) Run(started chan struct{}) {
	ticker := h.tickerCreator.Create(time.Second)
	pingTicker := h.tickerCreator.Create(30 * time.Second)

	close(started)

	for {
		select {
		case now := <-ticker:
			h.coord.Tick(now)

		case <-pingTicker:
			for _, p := range h.reg.List() {
				p.peer.Ping()
			}

		case req := <-h.joinRequests:
			h.handleJoin(req)

		case p := <-h.removals:
			h.handleRemove(p)

		case env := <-h.inbox:
			h.handleEnvelope(env)

		case <-h.stop:
			return
		}
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	if _, err := h.reg.Register(req.player.id, req.profile, req.player); err != nil {
		log.Warn().Str("name", req.profile.Name).Err(err).Msg("join rejected")
		req.errChan <- err
		return
	}
	log.Info().Str("name", req.profile.Name).Str("conn", req.player.id).Msg("participant joined")

	// Full-snapshot roster to everyone, then the canvas replay to the joiner
	// only: existing drawings become visible without being redrawn by others.
	h.disp.ToAll(MsgRoster, h.reg.Roster())
	h.disp.ToOne(req.player.id, MsgCanvasHistory, h.history.Replay())

	if h.coord.InProgress() {
		snap := h.coord.Snapshot()
		snap.Word = MaskWord(snap.Word)
		h.disp.ToOne(req.player.id, MsgTurnStarted, snap)
	}
	req.errChan <- nil
}

func (h *Hub) handleRemove(p *Player) {
	participant, ok := h.reg.Unregister(p.id)
	if !ok {
		return
	}
	log.Info().Str("name", participant.Name).Str("conn", participant.ID).Msg("participant left")
	participant.peer.CancelAndRelease()

	h.coord.HandleDisconnect(participant.Name)
	h.disp.ToAll(MsgRoster, h.reg.Roster())
}

func (h *Hub) handleEnvelope(env envelope) {
	switch env.msg.Type {
	case MsgChat:
		h.handleChat(env)
	case MsgStroke:
		h.handleStroke(env)
	case MsgClearCanvas:
		h.history.Clear()
		h.disp.ToAllExcept(env.from.id, MsgClearCanvas, struct{}{})
	case MsgStartGame:
		h.handleStartGame(env)
	case MsgCorrectGuess:
		h.coord.CorrectGuess(env.from.name, time.Now())
	case MsgEndGame:
		h.coord.EndGame()
	default:
		log.Debug().Str("type", env.msg.Type).Str("from", env.from.name).Msg("unknown action dropped")
	}
}

func (h *Hub) handleChat(env envelope) {
	var payload ChatPayload
	if err := json.Unmarshal(env.msg.Data, &payload); err != nil {
		log.Debug().Str("from", env.from.name).Err(err).Msg("bad chat payload dropped")
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return
	}

	h.disp.ToAll(MsgChat, ChatEvent{From: env.from.name, Color: env.from.color, Text: text})

	// Near-miss hint, to the sender only.
	state := h.coord.State()
	if !state.InProgress || env.from.name == state.TurnHolder {
		return
	}
	dist := levenshtein.ComputeDistance(strings.ToLower(text), strings.ToLower(state.CurrentWord))
	if dist > 0 && dist <= 2 {
		h.disp.ToOne(env.from.id, MsgCloseGuess, CloseGuessHint{Distance: dist})
	}
}

func (h *Hub) handleStroke(env envelope) {
	var ev StrokeEvent
	if err := json.Unmarshal(env.msg.Data, &ev); err != nil {
		log.Debug().Str("from", env.from.name).Err(err).Msg("bad stroke payload dropped")
		return
	}
	ev.Author = env.from.name

	h.history.Append(ev)
	h.disp.ToAllExcept(env.from.id, MsgStroke, ev)
}

func (h *Hub) handleStartGame(env envelope) {
	if h.coord.InProgress() {
		log.Debug().Str("from", env.from.name).Msg("start while active, ignored")
		return
	}
	if h.reg.Len() < 2 {
		log.Debug().Str("from", env.from.name).Msg("start with fewer than two participants, ignored")
		return
	}

	var payload StartGamePayload
	if err := json.Unmarshal(env.msg.Data, &payload); err != nil {
		log.Debug().Str("from", env.from.name).Err(err).Msg("bad start payload dropped")
		return
	}
	if payload.MaxRounds <= 0 {
		payload.MaxRounds = defaultMaxRounds
	}

	h.coord.Start(h.reg.Names(), payload.MaxRounds)
}
