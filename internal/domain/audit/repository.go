package audit

import "context"

// Repository defines the interface for audit log writes
type Repository interface {
	// AppendEntry stores a new entry, assigning EntryID when empty
	AppendEntry(ctx context.Context, entry *Entry) error
}
