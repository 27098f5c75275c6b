package store

import (
	"sync"
	"testing"

	"github.com/fairyhunter13/pos-register/internal/model"
	"github.com/fairyhunter13/pos-register/internal/register"
)

var teh = model.Product{ID: 1, Name: "Es Teh", Price: 5000}

func TestStoreStartsIdle(t *testing.T) {
	s := New()
	got := s.Snapshot()
	if got.Version() != 0 || got.Phase() != register.PhaseIdle || !got.Cart().IsEmpty() {
		t.Fatalf("unexpected initial state: %+v", got)
	}
}

func TestStoreReplaceNewer(t *testing.T) {
	s := New()
	next, _ := register.Apply(s.Snapshot(), register.AddItem{Product: teh}, register.Env{})
	if !s.Replace(next) {
		t.Fatalf("expected replace")
	}
	if s.Snapshot().Cart().ItemCount() != 1 {
		t.Fatalf("expected 1 item")
	}
}

func TestStoreIgnoresStale(t *testing.T) {
	s := New()
	v1, _ := register.Apply(s.Snapshot(), register.AddItem{Product: teh}, register.Env{})
	v2, _ := register.Apply(v1, register.AddItem{Product: teh}, register.Env{})
	s.Replace(v2)
	if s.Replace(v1) {
		t.Fatalf("expected stale replace to be ignored")
	}
	if s.Replace(v2) {
		t.Fatalf("expected equal version to be ignored")
	}
	if got := s.Snapshot().Cart().ItemCount(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				st := s.Snapshot()
				lines := st.Cart().Lines()
				var n int64
				for _, l := range lines {
					n += l.Quantity
				}
				if n != st.Cart().ItemCount() || st.Totals().Total != n*teh.Price {
					t.Errorf("torn read: %d items, total %d", n, st.Totals().Total)
					return
				}
			}
		}()
	}
	cur := s.Snapshot()
	for i := 0; i < 200; i++ {
		cur, _ = register.Apply(cur, register.AddItem{Product: teh}, register.Env{})
		s.Replace(cur)
	}
	close(stop)
	wg.Wait()
	if got := s.Snapshot().Cart().ItemCount(); got != 200 {
		t.Fatalf("expected 200, got %d", got)
	}
}
