package game

import (
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// GameState is the single authoritative game snapshot. Exactly one instance
// exists per process, owned by the hub goroutine and mutated only through
// Coordinator transitions.
type GameState struct {
	InProgress       bool
	CurrentWord      string
	TurnHolder       string
	RemainingSeconds int
	Scores           map[string]int
	Round            int
	MaxRounds        int
	Players          []string
	TurnIndex        int
}

// Coordinator drives the Idle/Active turn-rotation machine. It is not safe
// for concurrent use: every method must be called from the owning goroutine.
type Coordinator struct {
	state   GameState
	words   WordPicker
	out     Broadcaster
	history *History

	turnSeconds  int
	graceSeconds int

	// graceDeadline is the pending post-guess advance. Zero means no advance
	// is scheduled; clearing it is the cancellation primitive, so a
	// disconnect-triggered advance and the scheduled one coalesce.
	graceDeadline time.Time
}

func NewCoordinator(words WordPicker, out Broadcaster, history *History, turnSeconds, graceSeconds int) *Coordinator {
	return &Coordinator{
		words:        words,
		out:          out,
		history:      history,
		turnSeconds:  turnSeconds,
		graceSeconds: graceSeconds,
	}
}

func (c *Coordinator) InProgress() bool {
	return c.state.InProgress
}

func (c *Coordinator) State() GameState {
	snap := c.state
	snap.Scores = copyScores(c.state.Scores)
	snap.Players = slices.Clone(c.state.Players)
	return snap
}

// Snapshot builds the broadcast payload with the plaintext word. The
// dispatcher masks it per recipient.
func (c *Coordinator) Snapshot() TurnSnapshot {
	return TurnSnapshot{
		Word:             c.state.CurrentWord,
		TurnHolder:       c.state.TurnHolder,
		RemainingSeconds: c.state.RemainingSeconds,
		Scores:           copyScores(c.state.Scores),
		Round:            c.state.Round,
		MaxRounds:        c.state.MaxRounds,
	}
}

// Start populates the state for a fresh game: first player draws, round 1,
// random word, full turn clock, zeroed scores. The canvas is cleared and the
// complete snapshot broadcast. Callers guarantee at least two players.
func (c *Coordinator) Start(players []string, maxRounds int) {
	scores := make(map[string]int, len(players))
	for _, name := range players {
		scores[name] = 0
	}

	c.state = GameState{
		InProgress:       true,
		CurrentWord:      c.words.Pick(),
		TurnHolder:       players[0],
		RemainingSeconds: c.turnSeconds,
		Scores:           scores,
		Round:            1,
		MaxRounds:        maxRounds,
		Players:          slices.Clone(players),
		TurnIndex:        0,
	}
	c.graceDeadline = time.Time{}

	c.history.Clear()
	log.Info().Str("turn_holder", c.state.TurnHolder).Int("max_rounds", maxRounds).Msg("game started")
	c.out.TurnStarted(c.Snapshot())
}

// Tick advances the clock by one second. While a grace advance is pending
// the countdown is suspended and only the deadline is checked.
func (c *Coordinator) Tick(now time.Time) {
	if !c.state.InProgress {
		return
	}

	if !c.graceDeadline.IsZero() {
		if !now.Before(c.graceDeadline) {
			c.advanceTurn()
		}
		return
	}

	c.state.RemainingSeconds--
	if c.state.RemainingSeconds <= 0 {
		c.state.RemainingSeconds = 0
		c.advanceTurn()
		return
	}
	c.out.ToAll(MsgTimeUpdate, TimeUpdate{RemainingSeconds: c.state.RemainingSeconds})
}

// CorrectGuess awards the guesser and schedules the turn advance after the
// grace delay so the answer stays visible before the canvas clears. Returns
// false when the guess cannot apply in the current state.
func (c *Coordinator) CorrectGuess(guesser string, now time.Time) bool {
	if !c.state.InProgress {
		log.Debug().Str("guesser", guesser).Msg("guess while idle, ignored")
		return false
	}
	if guesser == c.state.TurnHolder {
		log.Debug().Str("guesser", guesser).Msg("turn holder cannot guess, ignored")
		return false
	}
	if !c.graceDeadline.IsZero() {
		log.Debug().Str("guesser", guesser).Msg("turn already decided, ignored")
		return false
	}
	if _, ok := c.state.Scores[guesser]; !ok {
		log.Debug().Str("guesser", guesser).Msg("guesser not in game, ignored")
		return false
	}

	points := c.state.RemainingSeconds * 2
	if points < 10 {
		points = 10
	}
	c.state.Scores[guesser] += points
	c.graceDeadline = now.Add(time.Duration(c.graceSeconds) * time.Second)

	log.Info().Str("guesser", guesser).Str("word", c.state.CurrentWord).Int("points", points).Msg("correct guess")
	c.out.ToAll(MsgScoreEvent, ScoreEvent{Guesser: guesser, Word: c.state.CurrentWord, Points: points})
	c.out.ToAll(MsgScores, copyScores(c.state.Scores))
	return true
}

// EndGame is the explicit termination request.
func (c *Coordinator) EndGame() {
	if !c.state.InProgress {
		log.Debug().Msg("end request while idle, ignored")
		return
	}
	c.terminate("ended")
}

// HandleDisconnect repairs state after a player drops mid-game. A
// non-holder leaving keeps the current turn running; the holder leaving
// advances immediately since no guess can ever land.
func (c *Coordinator) HandleDisconnect(name string) {
	if !c.state.InProgress {
		return
	}

	i := slices.Index(c.state.Players, name)
	if i < 0 {
		return
	}
	wasHolder := name == c.state.TurnHolder

	c.state.Players = slices.Delete(c.state.Players, i, i+1)
	delete(c.state.Scores, name)

	if len(c.state.Players) < 2 {
		c.terminate("not-enough-players")
		return
	}

	if i <= c.state.TurnIndex {
		c.state.TurnIndex--
	}

	if wasHolder {
		// Skip any pending grace delay, the advance below supersedes it.
		c.advanceTurn()
		return
	}
	c.out.ToAll(MsgScores, copyScores(c.state.Scores))
}

// advanceTurn rotates to the next player, wrapping into a new round and
// terminating past the round limit. Any pending grace deadline is consumed.
func (c *Coordinator) advanceTurn() {
	c.graceDeadline = time.Time{}

	c.state.TurnIndex++
	if c.state.TurnIndex >= len(c.state.Players) {
		c.state.TurnIndex = 0
		c.state.Round++
		if c.state.Round > c.state.MaxRounds {
			c.terminate("rounds-exhausted")
			return
		}
	}

	c.state.TurnHolder = c.state.Players[c.state.TurnIndex]
	c.state.CurrentWord = c.words.Pick()
	c.state.RemainingSeconds = c.turnSeconds

	c.history.Clear()
	log.Info().Str("turn_holder", c.state.TurnHolder).Int("round", c.state.Round).Msg("turn advanced")
	c.out.TurnStarted(c.Snapshot())
}

// terminate resets to the Idle defaults and broadcasts the notice. No timer
// effect survives it: the grace deadline is cleared and ticks become no-ops.
func (c *Coordinator) terminate(reason string) {
	final := copyScores(c.state.Scores)
	c.state = GameState{}
	c.graceDeadline = time.Time{}

	log.Info().Str("reason", reason).Msg("game over")
	c.out.ToAll(MsgGameOver, GameOver{Reason: reason, Scores: final})
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for name, score := range scores {
		out[name] = score
	}
	return out
}
