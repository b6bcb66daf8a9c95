package game

import (
	"github.com/rs/zerolog/log"
)

const DefaultTraceCapacity = 300

// TraceEntry records one decision taken while resolving a move.
type TraceEntry struct {
	MoveID   int
	Phase    string
	Player   int
	Steps    int
	From     int
	To       int
	TileType string
	Note     string
}

// TraceBuffer keeps the most recent decisions in a fixed-size ring.
type TraceBuffer struct {
	entries []TraceEntry
	next    int
	full    bool
}

func NewTraceBuffer(capacity int) *TraceBuffer {
	if capacity <= 0 {
		capacity = DefaultTraceCapacity
	}
	return &TraceBuffer{entries: make([]TraceEntry, capacity)}
}

func (b *TraceBuffer) Add(e TraceEntry) {
	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Snapshot returns the buffered entries, oldest first.
func (b *TraceBuffer) Snapshot() []TraceEntry {
	if !b.full {
		return append([]TraceEntry(nil), b.entries[:b.next]...)
	}
	out := make([]TraceEntry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	return append(out, b.entries[:b.next]...)
}

func (b *TraceBuffer) Len() int {
	if b.full {
		return len(b.entries)
	}
	return b.next
}

func (b *TraceBuffer) Clear() {
	b.next = 0
	b.full = false
}

// Dump writes the buffered trace to the log.
func (b *TraceBuffer) Dump(reason string) {
	log.Warn().Str("reason", reason).Int("entries", b.Len()).Msg("rules trace dump")
	for _, e := range b.Snapshot() {
		log.Warn().
			Int("move", e.MoveID).
			Str("phase", e.Phase).
			Int("player", e.Player).
			Int("steps", e.Steps).
			Int("from", e.From).
			Int("to", e.To).
			Str("tile", e.TileType).
			Msg(e.Note)
	}
}
