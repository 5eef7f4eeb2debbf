package game

import "time"

// PeriodicTickerChannelCreator abstracts time.Ticker so tests can drive the
// hub with hand-fed channels.
type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

type tickerGen struct{}

func (t *tickerGen) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() tickerGen {
	return tickerGen{}
}
