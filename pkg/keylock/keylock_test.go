package keylock

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := New()

	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := k.Lock("alice")
			defer unlock()
			// not atomic; only safe because the lock serializes us
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter=%d want=%d", counter, workers)
	}
}

func TestDifferentKeysDoNotBlockEachOther(t *testing.T) {
	k := New()

	unlockA := k.Lock("alice")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("bob")
		unlockB()
		close(done)
	}()
	// would deadlock here if bob shared alice's mutex
	<-done
}

func TestLockReusesMutexPerKey(t *testing.T) {
	k := New()

	unlock := k.Lock("alice")
	unlock()
	unlock = k.Lock("alice")
	unlock()

	if n := len(k.locks); n != 1 {
		t.Fatalf("locks=%d want=1", n)
	}
}
