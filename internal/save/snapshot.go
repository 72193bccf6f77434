package save

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/shire/internal/model"
)

// FormatVersion is written into every record. Records with another version
// are rejected on load.
const FormatVersion = 3

// Metadata describes one stored snapshot.
type Metadata struct {
	Slot            int       `json:"slot"`
	Version         int       `json:"version"`
	CharacterName   string    `json:"character_name"`
	CharacterLevel  int       `json:"character_level"`
	CreatedAt       time.Time `json:"created_at"`
	SavedAt         time.Time `json:"saved_at"`
	PlaytimeSeconds int64     `json:"playtime_seconds"`
	SaveCount       int       `json:"save_count"`
}

// Playtime returns accumulated playtime as a duration.
func (m Metadata) Playtime() time.Duration {
	return time.Duration(m.PlaytimeSeconds) * time.Second
}

// Snapshot is one saved character with its metadata. Checksum is the
// BLAKE2b-256 digest of the encoded character.
type Snapshot struct {
	Metadata  Metadata             `json:"metadata"`
	Character model.CharacterState `json:"character"`
	Checksum  string               `json:"checksum"`
}

// Record is the current save of a slot: the snapshot inlined at the top
// level.
type Record struct {
	Version int `json:"version"`
	Slot    int `json:"slot"`
	Snapshot
}

// History is the backup list of a slot, newest first. Each backup carries
// its own checksum and is verified only when restored, so one damaged entry
// does not hide the others.
type History struct {
	Version int        `json:"version"`
	Slot    int        `json:"slot"`
	Backups []Snapshot `json:"backups"`
}

func checksum(st model.CharacterState) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (s *Snapshot) seal() error {
	sum, err := checksum(s.Character)
	if err != nil {
		return fmt.Errorf("checksum for %q: %w", s.Character.Name, err)
	}
	s.Checksum = sum
	return nil
}

func (s *Snapshot) verify() error {
	sum, err := checksum(s.Character)
	if err != nil {
		return err
	}
	if s.Checksum != sum {
		return fmt.Errorf("checksum mismatch for %q", s.Character.Name)
	}
	return nil
}

// encodeRecord seals the snapshot and renders the record as indented JSON.
func encodeRecord(rec *Record) ([]byte, error) {
	rec.Version = FormatVersion
	if err := rec.seal(); err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding slot %d: %w", rec.Slot, err)
	}
	return raw, nil
}

// decodeRecord parses and checks a stored save. Every failure wraps
// ErrSerialization.
func decodeRecord(raw []byte, slot int) (*Record, error) {
	var rec Record
	if err := decodeStrict(raw, &rec); err != nil {
		return nil, err
	}
	if err := checkHeader(rec.Version, rec.Slot, slot); err != nil {
		return nil, err
	}
	if err := rec.verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &rec, nil
}

// encodeHistory renders a backup list. Snapshots keep the checksum they
// were sealed with as the current save.
func encodeHistory(h *History) ([]byte, error) {
	h.Version = FormatVersion
	if h.Backups == nil {
		h.Backups = []Snapshot{}
	}
	raw, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backups of slot %d: %w", h.Slot, err)
	}
	return raw, nil
}

// decodeHistory parses a stored backup list without verifying individual
// snapshots. Every failure wraps ErrSerialization.
func decodeHistory(raw []byte, slot int) (*History, error) {
	var h History
	if err := decodeStrict(raw, &h); err != nil {
		return nil, err
	}
	if err := checkHeader(h.Version, h.Slot, slot); err != nil {
		return nil, err
	}
	return &h, nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

func checkHeader(version, got, want int) error {
	if version != FormatVersion {
		return fmt.Errorf("%w: format version %d, want %d", ErrSerialization, version, FormatVersion)
	}
	if got != want {
		return fmt.Errorf("%w: record belongs to slot %d", ErrSerialization, got)
	}
	return nil
}
