package game

import "encoding/json"

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types.
const (
	MsgJoin         = "join"
	MsgChat         = "chat"
	MsgStroke       = "stroke"
	MsgClearCanvas  = "clear_canvas"
	MsgStartGame    = "start_game"
	MsgCorrectGuess = "correct_guess"
	MsgEndGame      = "end_game"
)

// Outbound message types. MsgChat, MsgStroke and MsgClearCanvas are relayed
// under their inbound names.
const (
	MsgRoster        = "roster"
	MsgCanvasHistory = "canvas_history"
	MsgTurnStarted   = "turn_started"
	MsgTimeUpdate    = "time_update"
	MsgScoreEvent    = "player_guessed"
	MsgScores        = "scores"
	MsgGameOver      = "game_over"
	MsgCloseGuess    = "close_guess"
)

type JoinPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type ChatEvent struct {
	From  string `json:"from"`
	Color string `json:"color"`
	Text  string `json:"text"`
}

type StrokeKind string

const (
	StrokeStart StrokeKind = "start"
	StrokeDraw  StrokeKind = "draw"
	StrokeEnd   StrokeKind = "end"
	StrokeShape StrokeKind = "shape"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StrokeEvent is one incremental drawing action. Author is stamped by the
// server from the sender's profile, client-supplied values are overwritten.
type StrokeEvent struct {
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Kind      StrokeKind `json:"kind"`
	Color     string     `json:"color"`
	Thickness float64    `json:"thickness"`
	Author    string     `json:"author"`
	Tool      string     `json:"tool,omitempty"`
	Origin    *Point     `json:"origin,omitempty"`
}

type StartGamePayload struct {
	MaxRounds int `json:"maxRounds"`
}

type RosterEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TurnSnapshot is the full game state sent on start and on every turn
// change. Word carries the plaintext only on the turn holder's connection,
// everyone else receives the masked form.
type TurnSnapshot struct {
	Word             string         `json:"word"`
	TurnHolder       string         `json:"turnHolder"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Scores           map[string]int `json:"scores"`
	Round            int            `json:"round"`
	MaxRounds        int            `json:"maxRounds"`
}

type TimeUpdate struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

type ScoreEvent struct {
	Guesser string `json:"guesser"`
	Word    string `json:"word"`
	Points  int    `json:"points"`
}

type GameOver struct {
	Reason string         `json:"reason"`
	Scores map[string]int `json:"scores"`
}

type CloseGuessHint struct {
	Distance int `json:"distance"`
}
