package save

import (
	"cmp"
	"context"
	"fmt"
)

// Entry is the kind of record kept for a slot. The current save and its
// backup history are stored apart so that damage to one leaves the other
// readable.
type Entry string

const (
	EntrySave    Entry = "save"
	EntryBackups Entry = "backups"
)

// Key addresses one stored record.
type Key struct {
	Slot  int
	Entry Entry
}

// SaveKey addresses the current save of slot.
func SaveKey(slot int) Key { return Key{Slot: slot, Entry: EntrySave} }

// BackupsKey addresses the backup history of slot.
func BackupsKey(slot int) Key { return Key{Slot: slot, Entry: EntryBackups} }

func (k Key) String() string {
	return fmt.Sprintf("slot %d %s", k.Slot, k.Entry)
}

// CompareKeys orders keys by slot, then entry.
func CompareKeys(a, b Key) int {
	if c := cmp.Compare(a.Slot, b.Slot); c != 0 {
		return c
	}
	return cmp.Compare(a.Entry, b.Entry)
}

// Store persists opaque records by key. Write must be all-or-nothing:
// a reader sees either the previous record or the new one.
type Store interface {
	// Read returns the record for key or ErrSlotEmpty.
	Read(ctx context.Context, key Key) ([]byte, error)
	Write(ctx context.Context, key Key, data []byte) error
	// Delete removes the record for key or returns ErrSlotEmpty.
	Delete(ctx context.Context, key Key) error
	// Keys returns every stored key ordered by CompareKeys.
	Keys(ctx context.Context) ([]Key, error)
}
