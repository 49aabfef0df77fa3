// Package history keeps a ledger of synthesis jobs in a [kv.Store].
//
// Key layout (relative to the ledger prefix):
//
//	{prefix}:rec:{ts_ns}  → msgpack-encoded Record
//	{prefix}:id:{id}      → ts_ns (reverse index)
//
// Timestamps are zero-padded to 20 digits so that lexicographic key order
// matches chronological order.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/flowtts/pkg/kv"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("history: record not found")

// Outcome values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Record is one synthesis job.
type Record struct {
	ID         string    `json:"id" yaml:"id" msgpack:"id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	VoiceID    string    `json:"voice_id" yaml:"voice_id" msgpack:"voice_id"`
	SampleRate int       `json:"sample_rate" yaml:"sample_rate" msgpack:"sample_rate"`
	TextLength int       `json:"text_length" yaml:"text_length" msgpack:"text_length"`

	Outcome   string `json:"outcome" yaml:"outcome" msgpack:"outcome"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty" msgpack:"error_kind,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`

	Location string        `json:"location,omitempty" yaml:"location,omitempty" msgpack:"location,omitempty"`
	Bytes    int           `json:"bytes,omitempty" yaml:"bytes,omitempty" msgpack:"bytes,omitempty"`
	Frames   int           `json:"frames,omitempty" yaml:"frames,omitempty" msgpack:"frames,omitempty"`
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty" msgpack:"duration,omitempty"`
}

// Ledger appends and lists Records.
type Ledger struct {
	store  kv.Store
	prefix kv.Key
	now    func() time.Time
}

// New creates a Ledger storing records under prefix in store.
func New(store kv.Store, prefix kv.Key) *Ledger {
	return &Ledger{store: store, prefix: prefix, now: time.Now}
}

func (l *Ledger) key(parts ...string) kv.Key {
	k := make(kv.Key, 0, len(l.prefix)+len(parts))
	k = append(k, l.prefix...)
	return append(k, parts...)
}

func recSegment(ts int64) string {
	return fmt.Sprintf("%020d", ts)
}

// Append stores rec. A missing ID or CreatedAt is filled in; the stored
// record is returned.
func (l *Ledger) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return Record{}, fmt.Errorf("history: marshal record: %w", err)
	}

	ts := rec.CreatedAt.UnixNano()
	if err := l.store.Set(ctx, l.key("rec", recSegment(ts)), data); err != nil {
		return Record{}, fmt.Errorf("history: set record: %w", err)
	}
	if err := l.store.Set(ctx, l.key("id", rec.ID), []byte(strconv.FormatInt(ts, 10))); err != nil {
		return Record{}, fmt.Errorf("history: set id index: %w", err)
	}
	return rec, nil
}

// Get returns the record with the given ID.
func (l *Ledger) Get(ctx context.Context, id string) (*Record, error) {
	tsBytes, err := l.store.Get(ctx, l.key("id", id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ts, err := strconv.ParseInt(string(tsBytes), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("history: malformed id index for %s: %w", id, err)
	}

	data, err := l.store.Get(ctx, l.key("rec", recSegment(ts)))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("history: unmarshal record: %w", err)
	}
	return &rec, nil
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Record, error) {
	var out []Record
	for entry, err := range l.store.Scan(ctx, l.key("rec"), kv.ScanOptions{Reverse: true, Limit: max(n, 0)}) {
		if err != nil {
			return nil, err
		}
		var rec Record
		if err := msgpack.Unmarshal(entry.Value, &rec); err != nil {
			return nil, fmt.Errorf("history: unmarshal %s: %w", entry.Key, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Prune deletes all but the newest keep records and returns how many were
// removed. A negative keep is an error.
func (l *Ledger) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("history: prune: keep must be >= 0, got %d", keep)
	}
	var (
		keys []kv.Key
		seen int
	)
	for entry, err := range l.store.Scan(ctx, l.key("rec"), kv.ScanOptions{Reverse: true}) {
		if err != nil {
			return 0, err
		}
		seen++
		if seen <= keep {
			continue
		}
		keys = append(keys, entry.Key)

		var rec Record
		if err := msgpack.Unmarshal(entry.Value, &rec); err == nil {
			keys = append(keys, l.key("id", rec.ID))
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := l.store.BatchDelete(ctx, keys); err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return seen - keep, nil
}
