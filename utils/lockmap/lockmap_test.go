package lockmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockReleasesKey(t *testing.T) {
	require := require.New(t)

	l := New(4)
	l.Lock("abcd")
	require.Equal(1, l.Locks())
	l.Unlock("abcd")
	require.Zero(l.Locks())

	l.RLock("abcd")
	l.RLock("abcd")
	require.Equal(1, l.Locks())
	l.RUnlock("abcd")
	require.Equal(1, l.Locks())
	l.RUnlock("abcd")
	require.Zero(l.Locks())
}

func TestLockSerializesWriters(t *testing.T) {
	l := New(0)

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("tick")
			counter++
			l.Unlock("tick")
		}()
	}
	wg.Wait()

	require.Equal(t, 64, counter)
	require.Zero(t, l.Locks())
}

func TestUnlockUnknownKeyPanics(t *testing.T) {
	l := New(0)
	require.Panics(t, func() { l.Unlock("nope") })
}
