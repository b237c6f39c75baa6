package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLockIndependentKeys(t *testing.T) {
	k := newKeyedLock()

	unlockA := k.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b waited for a")
	}

	blocked := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		unlock()
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("second lock on a did not wait")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-blocked
	assert.Equal(t, 0, k.size())
}
