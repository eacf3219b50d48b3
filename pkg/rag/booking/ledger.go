package booking

import "context"

// Record is a fully populated booking. Email is the identity key.
type Record struct {
	Name  string
	Email string
	Date  string
	Time  string
}

type Outcome int

const (
	Committed Outcome = iota
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Ledger commits records at most once per email. Implementations must
// enforce uniqueness atomically; a non-nil error means nothing is known
// to be durable.
type Ledger interface {
	Commit(ctx context.Context, record Record) (Outcome, error)
}
