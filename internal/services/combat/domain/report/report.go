// Package report carries structured battle narrative. Entries hold a message
// id and its arguments; rendering into text happens elsewhere.
package report

// Entry is one line of battle narrative.
type Entry struct {
	MessageID int
	Args      []any
	Indent    int
	Public    bool
}

// New returns a public, unindented entry.
func New(messageID int, args ...any) Entry {
	return Entry{MessageID: messageID, Args: args, Public: true}
}

// Indented returns a copy of e indented by level.
func (e Entry) Indented(level int) Entry {
	e.Indent = level
	return e
}

// Private returns a copy of e hidden from opposing players.
func (e Entry) Private() Entry {
	e.Public = false
	return e
}

// Sink receives report entries.
type Sink interface {
	Add(entries ...Entry)
}

// Log accumulates entries in order.
type Log struct {
	entries []Entry
}

// Add appends entries.
func (l *Log) Add(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Entries returns a copy of the accumulated entries.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of accumulated entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Buffer holds a phase's entries until they are flushed to a sink.
type Buffer struct {
	pending []Entry
}

// Add queues entries.
func (b *Buffer) Add(entries ...Entry) {
	b.pending = append(b.pending, entries...)
}

// Len returns the number of queued entries.
func (b *Buffer) Len() int {
	return len(b.pending)
}

// FlushTo moves every queued entry to sink in order.
func (b *Buffer) FlushTo(sink Sink) {
	if len(b.pending) == 0 {
		return
	}
	if sink != nil {
		sink.Add(b.pending...)
	}
	b.pending = nil
}

// Discard drops every entry.
type Discard struct{}

// Add drops entries.
func (Discard) Add(...Entry) {}
