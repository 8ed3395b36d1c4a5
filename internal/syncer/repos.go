package syncer

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/internal/outbox"
)

// Debtors and Loans adapt the generic document operations to the
// domain repository ports. The remote store serves whole collections,
// so all filtering happens over the decoded snapshot.
//
// Puts queue OpUpdate for first writes and rewrites alike: remote
// replay is an idempotent upsert, so the create/update distinction
// carries no meaning on the wire.

type Debtors struct{ store *Store }

func (s *Store) Debtors() *Debtors { return &Debtors{store: s} }

var _ ledger.DebtorRepository = (*Debtors)(nil)

func (r *Debtors) Get(ctx context.Context, id string) (*ledger.Debtor, error) {
	doc, err := r.store.ReadOne(ctx, ledger.CollectionDebtors, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrDebtorNotFound
	}
	if err != nil {
		return nil, err
	}
	var d ledger.Debtor
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Debtors) List(ctx context.Context) ([]ledger.Debtor, error) {
	docs, err := r.store.ReadAll(ctx, ledger.CollectionDebtors)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Debtor, 0, len(docs))
	for _, doc := range docs {
		var d ledger.Debtor
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *Debtors) Put(ctx context.Context, d *ledger.Debtor) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, ledger.CollectionDebtors, d.ID, doc, outbox.OpUpdate)
}

func (r *Debtors) Remove(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ledger.CollectionDebtors, id)
}

type Loans struct{ store *Store }

func (s *Store) Loans() *Loans { return &Loans{store: s} }

var _ ledger.LoanRepository = (*Loans)(nil)

func (r *Loans) Get(ctx context.Context, id string) (*ledger.Loan, error) {
	doc, err := r.store.ReadOne(ctx, ledger.CollectionLoans, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	var l ledger.Loan
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Loans) List(ctx context.Context) ([]ledger.Loan, error) {
	docs, err := r.store.ReadAll(ctx, ledger.CollectionLoans)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Loan, 0, len(docs))
	for _, doc := range docs {
		var l ledger.Loan
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *Loans) ListByDebtor(ctx context.Context, debtorID string) ([]ledger.Loan, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Loan, 0, len(all))
	for _, l := range all {
		if l.DebtorID == debtorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *Loans) Put(ctx context.Context, l *ledger.Loan) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, ledger.CollectionLoans, l.ID, doc, outbox.OpUpdate)
}
