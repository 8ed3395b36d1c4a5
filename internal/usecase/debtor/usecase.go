package debtor

import (
	"context"
	"strings"
	"time"

	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/pkg/id"
)

type Usecase struct {
	debtors ledger.DebtorRepository
	loans   ledger.LoanRepository
	now     func() time.Time
}

func NewUsecase(debtors ledger.DebtorRepository, loans ledger.LoanRepository) *Usecase {
	return &Usecase{debtors: debtors, loans: loans, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type CreateDebtorInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type UpdateDebtorInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (u *Usecase) Create(ctx context.Context, in CreateDebtorInput) (*ledger.Debtor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}
	d := ledger.Debtor{
		ID:        id.NewID32(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Notes:     in.Notes,
		CreatedAt: u.now(),
	}
	if err := u.debtors.Put(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (u *Usecase) Update(ctx context.Context, debtorID string, in UpdateDebtorInput) (*ledger.Debtor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ledger.Invalid("name", "is required")
	}
	d, err := u.debtors.Get(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	d.Name = strings.TrimSpace(in.Name)
	d.Phone = strings.TrimSpace(in.Phone)
	d.Notes = in.Notes
	if err := u.debtors.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (u *Usecase) Get(ctx context.Context, debtorID string) (*ledger.Debtor, error) {
	return u.debtors.Get(ctx, debtorID)
}

func (u *Usecase) List(ctx context.Context) ([]ledger.Debtor, error) {
	return u.debtors.List(ctx)
}

// Delete removes a debtor. A debtor still owning an open loan cannot
// be deleted; every loan must be settled or forgiven first.
func (u *Usecase) Delete(ctx context.Context, debtorID string) error {
	if _, err := u.debtors.Get(ctx, debtorID); err != nil {
		return err
	}
	loans, err := u.loans.ListByDebtor(ctx, debtorID)
	if err != nil {
		return err
	}
	for _, l := range loans {
		if !l.Closed {
			return ledger.InvalidState("debtor %s has an active loan", debtorID)
		}
	}
	return u.debtors.Remove(ctx, debtorID)
}
