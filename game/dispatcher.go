package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Broadcaster is the coordinator's view of the fan-out layer.
type Broadcaster interface {
	ToAll(msgType string, payload any)
	TurnStarted(snap TurnSnapshot)
}

// Dispatcher decides which transport primitive each outbound event uses:
// to-one, to-all, or to-all-except-sender. Delivery failures are counted and
// logged, never retried, and never stall the fan-out to other connections.
type Dispatcher struct {
	reg *Registry
}

func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

func encodeMessage(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: msgType, Data: data})
}

func (d *Dispatcher) ToAll(msgType string, payload any) {
	d.ToAllExcept("", msgType, payload)
}

// ToAllExcept sends to every connection but exceptID. An empty exceptID
// matches nobody.
func (d *Dispatcher) ToAllExcept(exceptID, msgType string, payload any) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("marshal failed, dropping broadcast")
		return
	}

	failed := 0
	for _, p := range d.reg.List() {
		if p.ID == exceptID {
			continue
		}
		if err := p.peer.Send(data); err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Warn().Str("type", msgType).Int("failed", failed).Msg("partial fan-out")
	}
}

func (d *Dispatcher) ToOne(connID, msgType string, payload any) {
	p, ok := d.reg.byID[connID]
	if !ok {
		return
	}
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("marshal failed, dropping send")
		return
	}
	if err := p.peer.Send(data); err != nil {
		log.Warn().Str("type", msgType).Str("to", p.Name).Err(err).Msg("send failed")
	}
}

// TurnStarted fans out the turn snapshot with a per-recipient payload: the
// plaintext word goes only to the turn holder, everyone else gets the masked
// form. snap.Word must be the plaintext.
func (d *Dispatcher) TurnStarted(snap TurnSnapshot) {
	masked := snap
	masked.Word = MaskWord(snap.Word)

	for _, p := range d.reg.List() {
		out := masked
		if p.Name == snap.TurnHolder {
			out = snap
		}
		d.ToOne(p.ID, MsgTurnStarted, out)
	}
}
