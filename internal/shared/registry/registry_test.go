package registry

import (
	"errors"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/shared/state"
)

// TestGetShared_ColdStart verifies the first call constructs and publishes.
func TestGetShared_ColdStart(t *testing.T) {
	slot := NewMemorySlot()
	in := NewInstance(slot, zerolog.Nop())

	s := in.GetShared()
	if s == nil {
		t.Fatal("GetShared returned nil")
	}
	if s.Inited() || s.Reloaded() {
		t.Errorf("cold start: inited=%v reloaded=%v, want false/false", s.Inited(), s.Reloaded())
	}

	published, err := slot.Load(Key)
	if err != nil {
		t.Fatalf("state not published: %v", err)
	}
	if published != s {
		t.Error("published state differs from returned state")
	}
}

// TestGetShared_Idempotent verifies repeat calls return the same object.
func TestGetShared_Idempotent(t *testing.T) {
	in := NewInstance(NewMemorySlot(), zerolog.Nop())

	first := in.GetShared()
	for i := 0; i < 3; i++ {
		s := in.GetShared()
		if s != first {
			t.Fatal("GetShared returned a different object")
		}
		if !s.Inited() || s.Reloaded() {
			t.Errorf("repeat call %d: inited=%v reloaded=%v, want true/false", i, s.Inited(), s.Reloaded())
		}
	}
}

// TestGetShared_CrossInstance verifies a second instance adopts the first
// instance's state with reloaded set exactly once.
func TestGetShared_CrossInstance(t *testing.T) {
	slot := NewMemorySlot()
	a := NewInstance(slot, zerolog.Nop())
	b := NewInstance(slot, zerolog.Nop())

	sa := a.GetShared()
	a.GetShared()

	sb := b.GetShared()
	if sb != sa {
		t.Fatal("instance B did not adopt instance A's state")
	}
	if !sb.Reloaded() {
		t.Error("first call in B: reloaded = false, want true")
	}

	sb2 := b.GetShared()
	if sb2 != sa {
		t.Fatal("instance B switched state on second call")
	}
	if sb2.Reloaded() {
		t.Error("second call in B: reloaded = true, want false")
	}
	if !sb2.Inited() {
		t.Error("second call in B: inited = false")
	}
}

// TestGetShared_IncompatibleEntry verifies a foreign value under the key is
// swallowed and a fresh private state is returned.
func TestGetShared_IncompatibleEntry(t *testing.T) {
	slot := NewMemorySlot()
	slot.Put(Key, "not a state")

	_, err := slot.Load(Key)
	if !errors.Is(err, ErrIncompatible) {
		t.Fatalf("Load() error = %v, want ErrIncompatible", err)
	}
	var lerr *LookupError
	if !errors.As(err, &lerr) || lerr.Op != "load" || lerr.Key != Key {
		t.Errorf("Load() error = %#v, want *LookupError for %q", err, Key)
	}

	in := NewInstance(slot, zerolog.Nop())
	s := in.GetShared()
	if s == nil {
		t.Fatal("GetShared returned nil")
	}
	if s.Reloaded() {
		t.Error("private state marked reloaded")
	}
	if in.GetShared() != s {
		t.Error("private state not kept as local handle")
	}
}

type panicSlot struct{}

func (panicSlot) Load(string) (*state.State, error)  { panic("load exploded") }
func (panicSlot) Publish(string, *state.State) error { panic("publish exploded") }

// TestGetShared_PanickingSlot verifies slot panics never reach the caller.
func TestGetShared_PanickingSlot(t *testing.T) {
	in := NewInstance(panicSlot{}, zerolog.Nop())
	s := in.GetShared()
	if s == nil {
		t.Fatal("GetShared returned nil")
	}
	if in.GetShared() != s {
		t.Error("local handle not kept")
	}
}

// racingSlot reports a miss on first Load, then loses the publish to a
// state that was installed in the meantime.
type racingSlot struct {
	*MemorySlot
	winner *state.State
	loads  int
}

func (r *racingSlot) Load(key string) (*state.State, error) {
	r.loads++
	if r.loads == 1 {
		return nil, &LookupError{Op: "load", Key: key, Err: ErrNotPublished}
	}
	return r.MemorySlot.Load(key)
}

func (r *racingSlot) Publish(key string, s *state.State) error {
	r.MemorySlot.Put(key, r.winner)
	return r.MemorySlot.Publish(key, s)
}

// TestGetShared_LostPublishRace verifies the loser adopts the winner.
func TestGetShared_LostPublishRace(t *testing.T) {
	winner := state.New(zerolog.Nop())
	slot := &racingSlot{MemorySlot: NewMemorySlot(), winner: winner}

	in := NewInstance(slot, zerolog.Nop())
	if got := in.GetShared(); got != winner {
		t.Fatal("loser did not adopt the published winner")
	}
	if !winner.Reloaded() {
		t.Error("adopted winner not marked reloaded")
	}
}

// TestGetShared_Concurrent verifies concurrent instances agree on one state.
func TestGetShared_Concurrent(t *testing.T) {
	slot := NewMemorySlot()
	const n = 16

	results := make(chan *state.State, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- NewInstance(slot, zerolog.Nop()).GetShared()
		}()
	}
	wg.Wait()
	close(results)

	first := <-results
	for s := range results {
		if s != first {
			t.Fatal("concurrent instances returned different states")
		}
	}
}

// TestExpvarSlot verifies the process-wide slot under a test-only key.
func TestExpvarSlot(t *testing.T) {
	key := fmt.Sprintf("sharedstate:test:expvar:%d", time.Now().UnixNano())
	slot := Expvar()

	if _, err := slot.Load(key); !errors.Is(err, ErrNotPublished) {
		t.Fatalf("Load() before publish error = %v, want ErrNotPublished", err)
	}

	s := state.New(zerolog.Nop())
	if err := slot.Publish(key, s); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := slot.Publish(key, s); !errors.Is(err, ErrAlreadyPublished) {
		t.Errorf("second Publish() error = %v, want ErrAlreadyPublished", err)
	}

	got, err := Expvar().Load(key)
	if err != nil || got != s {
		t.Fatalf("Load() = %p, %v; want %p", got, err, s)
	}

	v := expvar.Get(key)
	if v == nil || !strings.Contains(v.String(), `"reloaded":false`) {
		t.Errorf("expvar rendering = %v", v)
	}
}

// TestExpvarSlot_Foreign verifies a foreign expvar under the key is rejected.
func TestExpvarSlot_Foreign(t *testing.T) {
	key := fmt.Sprintf("sharedstate:test:foreign:%d", time.Now().UnixNano())
	expvar.NewInt(key)

	if _, err := Expvar().Load(key); !errors.Is(err, ErrIncompatible) {
		t.Errorf("Load() error = %v, want ErrIncompatible", err)
	}
}
