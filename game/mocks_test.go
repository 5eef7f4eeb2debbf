package game

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// --- SocketConn ---

type MockSocketConn struct {
	mock.Mock
}

func (m *MockSocketConn) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSocketConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockSocketConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSocketConn) Close(reason string) {
	m.Called(reason)
}

// --- WordPicker ---

type MockWordPicker struct {
	mock.Mock
}

func (m *MockWordPicker) Pick() string {
	args := m.Called()
	return args.String(0)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Peer ---

// fakePeer records every frame it is handed. failSend simulates a dead
// connection without aborting the fan-out.
type fakePeer struct {
	frames   [][]byte
	pings    int
	released bool
	failSend bool
}

func (f *fakePeer) Send(data []byte) error {
	if f.failSend {
		return ErrSlowConsumer
	}
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakePeer) Ping() error {
	f.pings++
	return nil
}

func (f *fakePeer) CancelAndRelease() {
	f.released = true
}
