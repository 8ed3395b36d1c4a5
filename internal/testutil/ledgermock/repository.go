// Package ledgermock provides function-backed mocks of the domain
// repositories. Only the funcs a test sets are live; the rest return
// not-found.
package ledgermock

import (
	"context"

	"lendbook-backend/internal/domain/ledger"
)

type DebtorRepo struct {
	GetFn    func(ctx context.Context, id string) (*ledger.Debtor, error)
	ListFn   func(ctx context.Context) ([]ledger.Debtor, error)
	PutFn    func(ctx context.Context, d *ledger.Debtor) error
	RemoveFn func(ctx context.Context, id string) error
}

var _ ledger.DebtorRepository = (*DebtorRepo)(nil)

func (m *DebtorRepo) Get(ctx context.Context, id string) (*ledger.Debtor, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, ledger.ErrDebtorNotFound
}

func (m *DebtorRepo) List(ctx context.Context) ([]ledger.Debtor, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *DebtorRepo) Put(ctx context.Context, d *ledger.Debtor) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, d)
	}
	return nil
}

func (m *DebtorRepo) Remove(ctx context.Context, id string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, id)
	}
	return nil
}

type LoanRepo struct {
	GetFn          func(ctx context.Context, id string) (*ledger.Loan, error)
	ListFn         func(ctx context.Context) ([]ledger.Loan, error)
	ListByDebtorFn func(ctx context.Context, debtorID string) ([]ledger.Loan, error)
	PutFn          func(ctx context.Context, l *ledger.Loan) error
}

var _ ledger.LoanRepository = (*LoanRepo)(nil)

func (m *LoanRepo) Get(ctx context.Context, id string) (*ledger.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, ledger.ErrLoanNotFound
}

func (m *LoanRepo) List(ctx context.Context) ([]ledger.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *LoanRepo) ListByDebtor(ctx context.Context, debtorID string) ([]ledger.Loan, error) {
	if m.ListByDebtorFn != nil {
		return m.ListByDebtorFn(ctx, debtorID)
	}
	return nil, nil
}

func (m *LoanRepo) Put(ctx context.Context, l *ledger.Loan) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, l)
	}
	return nil
}
