package resolve

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/wrenhall/realmlog/pkg/catalog"
)

// countingLookup wraps a fixed record set and counts Find calls, so tests can
// assert that cached names never hit the backing lookup.
type countingLookup struct {
	records map[string]*catalog.ItemRecord
	fail    map[string]bool
	calls   int64
}

func (l *countingLookup) Find(_ context.Context, name string) (*catalog.ItemRecord, bool, error) {
	atomic.AddInt64(&l.calls, 1)
	if l.fail[name] {
		return nil, false, fmt.Errorf("lookup blew up for %q", name)
	}
	rec, ok := l.records[name]
	return rec, ok, nil
}

func (l *countingLookup) callCount() int64 {
	return atomic.LoadInt64(&l.calls)
}

func rec(name string) *catalog.ItemRecord {
	return &catalog.ItemRecord{ID: "id-" + name, Name: name}
}

func TestResolveSeededWithoutLookup(t *testing.T) {
	lookup := &countingLookup{records: map[string]*catalog.ItemRecord{}}
	cache := NewCache(lookup)
	cache.Seed(map[string]*catalog.ItemRecord{"Short Sword": rec("Short Sword")})

	got, ok := cache.Resolve(context.Background(), "Short Sword")
	if !ok || got.Name != "Short Sword" {
		t.Fatalf("seeded name not resolved: %v %v", got, ok)
	}
	if lookup.callCount() != 0 {
		t.Fatalf("seeded resolve must not hit the lookup, saw %d calls", lookup.callCount())
	}
}

func TestResolveFallbackThenMemoized(t *testing.T) {
	lookup := &countingLookup{records: map[string]*catalog.ItemRecord{"Helmet": rec("Helmet")}}
	cache := NewCache(lookup)

	if _, ok := cache.Resolve(context.Background(), "Helmet"); !ok {
		t.Fatal("expected fallback resolution to succeed")
	}
	if _, ok := cache.Resolve(context.Background(), "Helmet"); !ok {
		t.Fatal("expected cached resolution to succeed")
	}
	if lookup.callCount() != 1 {
		t.Fatalf("expected exactly 1 lookup, saw %d", lookup.callCount())
	}
}

func TestResolveMissNotNegativeCached(t *testing.T) {
	lookup := &countingLookup{records: map[string]*catalog.ItemRecord{}}
	cache := NewCache(lookup)

	for i := 0; i < 2; i++ {
		if _, ok := cache.Resolve(context.Background(), "Unknown Relic"); ok {
			t.Fatal("resolved a name the lookup doesn't have")
		}
	}
	// Each call must retry: missing names are not negative-cached.
	if lookup.callCount() != 2 {
		t.Fatalf("expected 2 lookups for a repeated miss, saw %d", lookup.callCount())
	}
}

func TestWarmUpResolvesBatches(t *testing.T) {
	records := map[string]*catalog.ItemRecord{}
	var names []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("Item %02d", i)
		records[name] = rec(name)
		names = append(names, name)
	}
	lookup := &countingLookup{records: records}
	cache := NewCache(lookup, WithBatchSize(5), WithBatchDelay(0))

	unresolved := cache.WarmUp(context.Background(), names)
	if len(unresolved) != 0 {
		t.Fatalf("expected full warm-up, %v unresolved", unresolved)
	}
	if cache.Len() != 12 {
		t.Fatalf("expected 12 cached entries, got %d", cache.Len())
	}
	if lookup.callCount() != 12 {
		t.Fatalf("expected 12 lookups, saw %d", lookup.callCount())
	}
}

func TestWarmUpSkipsCachedNames(t *testing.T) {
	lookup := &countingLookup{records: map[string]*catalog.ItemRecord{"B": rec("B")}}
	cache := NewCache(lookup, WithBatchDelay(0))
	cache.Seed(map[string]*catalog.ItemRecord{"A": rec("A")})

	cache.WarmUp(context.Background(), []string{"A", "B"})
	if lookup.callCount() != 1 {
		t.Fatalf("cached name warmed up again: %d lookups", lookup.callCount())
	}
}

func TestWarmUpFailureDoesNotBlockSiblings(t *testing.T) {
	records := map[string]*catalog.ItemRecord{}
	var names []string
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Item %d", i)
		records[name] = rec(name)
		names = append(names, name)
	}
	lookup := &countingLookup{records: records, fail: map[string]bool{"Item 2": true}}
	cache := NewCache(lookup, WithBatchSize(5), WithBatchDelay(0))

	unresolved := cache.WarmUp(context.Background(), names)
	if len(unresolved) != 1 || unresolved[0] != "Item 2" {
		t.Fatalf("expected only the failing name unresolved, got %v", unresolved)
	}
	if cache.Len() != 4 {
		t.Fatalf("expected the 4 sibling results stored, got %d", cache.Len())
	}
}

func TestWarmUpCancelledContext(t *testing.T) {
	lookup := &countingLookup{records: map[string]*catalog.ItemRecord{"A": rec("A")}}
	cache := NewCache(lookup, WithBatchDelay(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unresolved := cache.WarmUp(ctx, []string{"A"})
	if len(unresolved) != 1 {
		t.Fatalf("expected cancelled warm-up to leave names unresolved, got %v", unresolved)
	}
	if lookup.callCount() != 0 {
		t.Fatalf("cancelled warm-up still performed %d lookups", lookup.callCount())
	}
}

func TestPrimed(t *testing.T) {
	cache := NewCache(&countingLookup{})
	if cache.Primed() {
		t.Fatal("empty cache reported primed")
	}
	cache.Seed(map[string]*catalog.ItemRecord{
		"A": rec("A"), "B": rec("B"), "C": rec("C"), "D": rec("D"),
	})
	if !cache.Primed() {
		t.Fatal("seeded cache not primed")
	}
}
