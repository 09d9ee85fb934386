package sheets

import "context"

// Record is one transaction flattened for the spreadsheet mirror.
type Record struct {
	ID          int64
	UserID      int64
	Date        string // YYYY-MM-DD
	Type        string
	Category    string
	AmountCents int64
	Description string
}

// Ports for outbound adapters.
type (
	// MirrorWriter appends a transaction record to the mirror.
	MirrorWriter interface {
		Append(ctx context.Context, rec Record) (rowRef string, err error)
	}

	// MirrorRemover removes a previously mirrored transaction by its ID.
	MirrorRemover interface {
		Remove(ctx context.Context, id int64) error
	}
)
