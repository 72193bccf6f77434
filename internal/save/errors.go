package save

import "errors"

var (
	ErrSaveNotFound   = errors.New("save not found")
	ErrBackupNotFound = errors.New("backup not found")
	ErrSerialization  = errors.New("corrupt save data")
	ErrInvalidSlot    = errors.New("invalid save slot")

	// ErrSlotEmpty is returned by a Store for a key with no record.
	ErrSlotEmpty = errors.New("no record stored")
)
