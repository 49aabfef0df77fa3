package kv_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/haivivi/flowtts/pkg/kv"
)

// runStoreSuite exercises a Store implementation. newStore must return an
// empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T, opts *kv.Options) kv.Store) {
	t.Run("GetSetDelete", func(t *testing.T) { testGetSetDelete(t, newStore(t, nil)) })
	t.Run("Scan", func(t *testing.T) { testScan(t, newStore(t, nil)) })
	t.Run("ScanReverseLimit", func(t *testing.T) { testScanReverseLimit(t, newStore(t, nil)) })
	t.Run("ScanPrefixBoundary", func(t *testing.T) { testScanPrefixBoundary(t, newStore(t, nil)) })
	t.Run("ScanBreak", func(t *testing.T) { testScanBreak(t, newStore(t, nil)) })
	t.Run("BatchDelete", func(t *testing.T) { testBatchDelete(t, newStore(t, nil)) })
	t.Run("CustomSeparator", func(t *testing.T) { testCustomSeparator(t, newStore(t, &kv.Options{Separator: '/'})) })
}

func newMemoryStore(t *testing.T, opts *kv.Options) kv.Store {
	t.Helper()
	s := kv.NewMemory(opts)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemory(t *testing.T) {
	runStoreSuite(t, newMemoryStore)
}

func mustSet(t *testing.T, s kv.Store, key kv.Key, val string) {
	t.Helper()
	if err := s.Set(context.Background(), key, []byte(val)); err != nil {
		t.Fatalf("Set(%s): %v", key, err)
	}
}

func scanKeys(t *testing.T, s kv.Store, prefix kv.Key, opts kv.ScanOptions) []string {
	t.Helper()
	var keys []string
	for e, err := range s.Scan(context.Background(), prefix, opts) {
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		keys = append(keys, e.Key.String())
	}
	return keys
}

func testGetSetDelete(t *testing.T, s kv.Store) {
	ctx := context.Background()
	key := kv.Key{"history", "0001", "abc"}

	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mustSet(t, s, key, "hello")
	mustSet(t, s, key, "world")
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("Get = %q, want %q", got, "world")
	}

	// Returned values are copies.
	got[0] = 'X'
	again, _ := s.Get(ctx, key)
	if string(again) != "world" {
		t.Fatalf("stored value mutated: %q", again)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, kv.Key{"no", "such", "key"}); err != nil {
		t.Fatalf("Delete non-existent: %v", err)
	}
}

func testScan(t *testing.T, s kv.Store) {
	mustSet(t, s, kv.Key{"history", "0003", "c"}, "3")
	mustSet(t, s, kv.Key{"history", "0001", "a"}, "1")
	mustSet(t, s, kv.Key{"history", "0002", "b"}, "2")
	mustSet(t, s, kv.Key{"other", "x"}, "x")

	got := scanKeys(t, s, kv.Key{"history"}, kv.ScanOptions{})
	want := []string{"history:0001:a", "history:0002:b", "history:0003:c"}
	if !slices.Equal(got, want) {
		t.Fatalf("Scan = %v, want %v", got, want)
	}

	if all := scanKeys(t, s, nil, kv.ScanOptions{}); len(all) != 4 {
		t.Fatalf("Scan(nil) returned %d entries, want 4", len(all))
	}
	if none := scanKeys(t, s, kv.Key{"missing"}, kv.ScanOptions{}); len(none) != 0 {
		t.Fatalf("Scan(missing) = %v", none)
	}
}

func testScanReverseLimit(t *testing.T, s kv.Store) {
	for _, ts := range []string{"0001", "0002", "0003", "0004"} {
		mustSet(t, s, kv.Key{"history", ts}, ts)
	}
	mustSet(t, s, kv.Key{"historz", "9999"}, "outside")

	got := scanKeys(t, s, kv.Key{"history"}, kv.ScanOptions{Reverse: true, Limit: 2})
	want := []string{"history:0004", "history:0003"}
	if !slices.Equal(got, want) {
		t.Fatalf("reverse Scan = %v, want %v", got, want)
	}

	got = scanKeys(t, s, kv.Key{"history"}, kv.ScanOptions{Limit: 3})
	want = []string{"history:0001", "history:0002", "history:0003"}
	if !slices.Equal(got, want) {
		t.Fatalf("limited Scan = %v, want %v", got, want)
	}
}

func testScanPrefixBoundary(t *testing.T, s kv.Store) {
	mustSet(t, s, kv.Key{"a", "b"}, "1")
	mustSet(t, s, kv.Key{"a", "bc"}, "2")
	mustSet(t, s, kv.Key{"a", "b", "c"}, "3")

	got := scanKeys(t, s, kv.Key{"a", "b"}, kv.ScanOptions{})
	want := []string{"a:b:c"}
	if !slices.Equal(got, want) {
		t.Fatalf("Scan(a:b) = %v, want %v", got, want)
	}
}

func testScanBreak(t *testing.T, s kv.Store) {
	for _, k := range []string{"1", "2", "3"} {
		mustSet(t, s, kv.Key{"p", k}, k)
	}
	n := 0
	for _, err := range s.Scan(context.Background(), kv.Key{"p"}, kv.ScanOptions{}) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		break
	}
	if n != 1 {
		t.Fatalf("iterated %d entries after break", n)
	}
}

func testBatchDelete(t *testing.T, s kv.Store) {
	ctx := context.Background()
	keys := []kv.Key{{"b", "1"}, {"b", "2"}, {"b", "3"}}
	for _, k := range keys {
		mustSet(t, s, k, "v")
	}

	if err := s.BatchDelete(ctx, keys[:2]); err != nil {
		t.Fatalf("BatchDelete: %v", err)
	}
	got := scanKeys(t, s, kv.Key{"b"}, kv.ScanOptions{})
	if !slices.Equal(got, []string{"b:3"}) {
		t.Fatalf("after BatchDelete = %v", got)
	}
}

func testCustomSeparator(t *testing.T, s kv.Store) {
	mustSet(t, s, kv.Key{"x", "a:b"}, "1")

	var got []kv.Key
	for e, err := range s.Scan(context.Background(), kv.Key{"x"}, kv.ScanOptions{}) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, e.Key)
	}
	if len(got) != 1 || !slices.Equal(got[0], kv.Key{"x", "a:b"}) {
		t.Fatalf("Scan = %v", got)
	}
}

func TestScanCanceled(t *testing.T) {
	s := kv.NewMemory(nil)
	mustSet(t, s, kv.Key{"p", "1"}, "1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range s.Scan(ctx, kv.Key{"p"}, kv.ScanOptions{}) {
		gotErr = err
	}
	if !errors.Is(gotErr, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", gotErr)
	}
}
