package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func mustFrame(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	frame, err := encodeMessage(msgType, payload)
	require.NoError(t, err)
	return frame
}

func newTestPlayer(socket SocketConn) (*Player, chan envelope, chan *Player) {
	inbox := make(chan envelope, 64)
	removals := make(chan *Player, 1)
	p := NewPlayer("c1", JoinPayload{Name: "ana", Color: "#000"}, socket, inbox, removals)
	return p, inbox, removals
}

func TestReadPump_ForwardsFramesAndRequestsRemoval(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, inbox, removals := newTestPlayer(socket)

	socket.On("Read").Return(mustFrame(t, MsgChat, ChatPayload{Text: "hola"}), nil).Once()
	socket.On("Read").Return([]byte{}, assert.AnError).Once()
	socket.On("Close", "").Return().Once()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.ReadPump()
	}()
	wg.Wait()

	env := <-inbox
	assert.Equal(t, MsgChat, env.msg.Type)
	assert.Same(t, p, env.from)

	assert.Same(t, p, <-removals)
	socket.AssertExpectations(t)
}

func TestReadPump_DropsMalformedFrames(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, inbox, _ := newTestPlayer(socket)

	socket.On("Read").Return([]byte("{not json"), nil).Once()
	socket.On("Read").Return([]byte{}, assert.AnError).Once()
	socket.On("Close", "").Return()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.ReadPump()
	}()
	wg.Wait()

	assert.Empty(t, inbox)
}

func TestReadPump_RateLimitsControlActions(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, inbox, _ := newTestPlayer(socket)
	// no refill: exactly two control actions pass
	p.limiter = rate.NewLimiter(0, 2)

	chat := mustFrame(t, MsgChat, ChatPayload{Text: "hola"})
	for i := 0; i < 5; i++ {
		socket.On("Read").Return(chat, nil).Once()
	}
	socket.On("Read").Return([]byte{}, assert.AnError).Once()
	socket.On("Close", "").Return()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.ReadPump()
	}()
	wg.Wait()

	assert.Len(t, inbox, 2)
}

func TestReadPump_StrokesBypassRateLimit(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, inbox, _ := newTestPlayer(socket)
	p.limiter = rate.NewLimiter(0, 0)

	stroke := mustFrame(t, MsgStroke, StrokeEvent{X: 1, Kind: StrokeDraw})
	for i := 0; i < 10; i++ {
		socket.On("Read").Return(stroke, nil).Once()
	}
	socket.On("Read").Return([]byte{}, assert.AnError).Once()
	socket.On("Close", "").Return()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.ReadPump()
	}()
	wg.Wait()

	assert.Len(t, inbox, 10)
}

func TestSend_DropsOnFullBuffer(t *testing.T) {
	t.Parallel()
	p, _, _ := newTestPlayer(&MockSocketConn{})

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, p.Send([]byte("x")))
	}
	assert.ErrorIs(t, p.Send([]byte("x")), ErrSlowConsumer)
}

func TestSend_AfterRelease(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	socket.On("Close", "").Return().Once()
	p, _, _ := newTestPlayer(socket)

	p.CancelAndRelease()
	p.CancelAndRelease() // idempotent

	assert.ErrorIs(t, p.Send([]byte("x")), ErrPeerGone)
	socket.AssertExpectations(t)
}

func TestWritePump_WritesQueuedFrames(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, _, _ := newTestPlayer(socket)

	frame := mustFrame(t, MsgRoster, []RosterEntry{{ID: "c1", Name: "ana"}})
	written := make(chan []byte, 1)
	socket.On("Write", frame).Run(func(args mock.Arguments) {
		written <- args.Get(0).([]byte)
	}).Return(nil).Once()
	socket.On("Close", "").Return()

	go p.WritePump()
	require.NoError(t, p.Send(frame))

	var msg WSMessage
	require.NoError(t, json.Unmarshal(<-written, &msg))
	assert.Equal(t, MsgRoster, msg.Type)

	p.CancelAndRelease()
}

func TestWritePump_ReleasesOnWriteError(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, _, _ := newTestPlayer(socket)

	socket.On("Write", mock.Anything).Return(assert.AnError).Once()
	socket.On("Close", "").Return().Once()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.WritePump()
	}()
	require.NoError(t, p.Send([]byte("x")))
	wg.Wait()

	assert.ErrorIs(t, p.Send([]byte("x")), ErrPeerGone)
	socket.AssertExpectations(t)
}

func TestPing_QueuesPingForWritePump(t *testing.T) {
	t.Parallel()
	socket := &MockSocketConn{}
	p, _, _ := newTestPlayer(socket)

	pinged := make(chan struct{}, 1)
	socket.On("Ping").Run(func(args mock.Arguments) {
		pinged <- struct{}{}
	}).Return(nil).Once()
	socket.On("Close", "").Return()

	go p.WritePump()
	require.NoError(t, p.Ping())
	<-pinged

	p.CancelAndRelease()
}
