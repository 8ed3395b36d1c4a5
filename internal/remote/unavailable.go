package remote

import (
	"context"
	"errors"

	"lendbook-backend/internal/domain/ledger"
)

// Unavailable is the stand-in remote store used when no connection
// could be established at startup. Every call fails with
// RemoteUnavailableError, so reads fall back to cache and writes stay
// queued until a real store replaces it or connectivity returns.
type Unavailable struct{}

var _ Store = Unavailable{}

var errNoRemote = errors.New("no remote store configured")

func (Unavailable) Get(context.Context, string) ([]Document, error) {
	return nil, &ledger.RemoteUnavailableError{Err: errNoRemote}
}
func (Unavailable) Set(context.Context, string, string, []byte) error {
	return &ledger.RemoteUnavailableError{Err: errNoRemote}
}
func (Unavailable) Update(context.Context, string, string, []byte) error {
	return &ledger.RemoteUnavailableError{Err: errNoRemote}
}
func (Unavailable) Delete(context.Context, string, string) error {
	return &ledger.RemoteUnavailableError{Err: errNoRemote}
}
