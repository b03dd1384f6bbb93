package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockAdvanceFiresAfter(t *testing.T) {
	m := NewMock(time.Unix(0, 0))
	ch := m.After(5 * time.Second)

	select {
	case <-ch:
		t.Fatal("fired before deadline")
	default:
	}

	m.Advance(5 * time.Second)

	select {
	case got := <-ch:
		assert.Equal(t, m.Now(), got)
	case <-time.After(time.Second):
		t.Fatal("did not fire after deadline")
	}
}

func TestMockSleepBlocksUntilAdvanced(t *testing.T) {
	m := NewMock(time.Unix(0, 0))
	done := make(chan struct{})
	go func() {
		m.Sleep(2 * time.Second)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("sleep returned early")
	case <-time.After(50 * time.Millisecond):
	}

	m.Advance(2 * time.Second)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleep never returned")
	}
}
