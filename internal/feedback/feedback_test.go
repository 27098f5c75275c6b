package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalString(t *testing.T) {
	assert.Equal(t, "add", Add.String())
	assert.Equal(t, "remove", Remove.String())
	assert.Equal(t, "unknown", Signal(0).String())
}

func TestChannelDropsWhenFull(t *testing.T) {
	c := NewChannel(2)
	c.Emit(Add)
	c.Emit(Remove)
	c.Emit(Add)

	emitted, dropped := c.Metrics()
	assert.Equal(t, uint64(2), emitted)
	assert.Equal(t, uint64(1), dropped)
	assert.Equal(t, Add, <-c.Signals())
	assert.Equal(t, Remove, <-c.Signals())
}

func TestChannelDefaultBuffer(t *testing.T) {
	c := NewChannel(0)
	for i := 0; i < 16; i++ {
		c.Emit(Add)
	}
	_, dropped := c.Metrics()
	assert.Zero(t, dropped)
}

func TestListenConsumesUntilCancelled(t *testing.T) {
	c := NewChannel(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Listen(ctx) }()

	for i := 0; i < 20; i++ {
		c.Emit(Add)
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
	emitted, _ := c.Metrics()
	assert.NotZero(t, emitted)
}

func TestNopDiscards(t *testing.T) {
	var e Emitter = Nop{}
	assert.NotPanics(t, func() { e.Emit(Remove) })
}
