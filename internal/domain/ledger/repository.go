package ledger

import "context"

// Repositories are backed by the offline-first sync store; reads may
// come from the local cache when the remote store is unreachable, and
// writes succeed once the local cache write is durable.

type DebtorRepository interface {
	Get(ctx context.Context, id string) (*Debtor, error)
	List(ctx context.Context) ([]Debtor, error)
	Put(ctx context.Context, d *Debtor) error
	Remove(ctx context.Context, id string) error
}

type LoanRepository interface {
	Get(ctx context.Context, id string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	ListByDebtor(ctx context.Context, debtorID string) ([]Loan, error)
	Put(ctx context.Context, l *Loan) error
}
