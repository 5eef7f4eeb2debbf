package game

// Peer is the send side of one connected participant. Implemented by
// *Player, mocked in tests.
type Peer interface {
	Send(data []byte) error
	Ping() error
	CancelAndRelease()
}

// Participant ties a transport connection to a player-chosen profile. The
// connection id is the only stable identity; the display name is the game
// identity (turn ownership and scores key on it).
type Participant struct {
	ID    string
	Name  string
	Color string
	peer  Peer
}

// Registry is the "who is online" view. Iteration order is registration
// order. It is owned by the hub goroutine and never locked.
type Registry struct {
	order []*Participant
	byID  map[string]*Participant
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Participant)}
}

// Register adds a participant, replacing any previous entry with the same
// connection id. A display name held by a different connection is rejected,
// two live connections must never share a game identity.
func (r *Registry) Register(id string, profile JoinPayload, peer Peer) (*Participant, error) {
	for _, p := range r.order {
		if p.Name == profile.Name && p.ID != id {
			return nil, ErrNameTaken
		}
	}

	if existing, ok := r.byID[id]; ok {
		existing.Name = profile.Name
		existing.Color = profile.Color
		existing.peer = peer
		return existing, nil
	}

	p := &Participant{ID: id, Name: profile.Name, Color: profile.Color, peer: peer}
	r.order = append(r.order, p)
	r.byID[id] = p
	return p, nil
}

// Unregister removes and returns the participant for a connection id.
func (r *Registry) Unregister(id string) (*Participant, bool) {
	p, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for i, q := range r.order {
		if q == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, true
}

func (r *Registry) List() []*Participant {
	out := make([]*Participant, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns display names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, p := range r.order {
		names = append(names, p.Name)
	}
	return names
}

func (r *Registry) ByName(name string) (*Participant, bool) {
	for _, p := range r.order {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Roster builds the full-snapshot payload broadcast after every change.
func (r *Registry) Roster() []RosterEntry {
	roster := make([]RosterEntry, 0, len(r.order))
	for _, p := range r.order {
		roster = append(roster, RosterEntry{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	return roster
}
