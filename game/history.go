package game

// History is the canvas stroke log: append-only between clears, replayed in
// full to every joiner. End events are control-only markers and are never
// persisted.
type History struct {
	events []StrokeEvent
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(ev StrokeEvent) {
	if ev.Kind == StrokeEnd {
		return
	}
	h.events = append(h.events, ev)
}

// Replay returns the events in append order. The slice is a copy, callers
// may hold it across further appends.
func (h *History) Replay() []StrokeEvent {
	out := make([]StrokeEvent, len(h.events))
	copy(out, h.events)
	return out
}

func (h *History) Clear() {
	h.events = h.events[:0]
}

func (h *History) Len() int {
	return len(h.events)
}
