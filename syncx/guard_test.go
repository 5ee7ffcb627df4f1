package syncx

import (
	"sync"
	"testing"
)

func TestGuardGetSet(t *testing.T) {
	g := NewGuard(1)
	if got := g.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	g.Set(5)
	if got := g.Get(); got != 5 {
		t.Errorf("Get() = %d, want 5", got)
	}
}

func TestGuardConcurrentUpdate(t *testing.T) {
	g := NewGuard(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Update(func(v *int) { *v++ })
		}()
	}
	wg.Wait()
	if got := g.Get(); got != 100 {
		t.Errorf("Get() = %d, want 100", got)
	}
}
