package account

import "errors"

var (
	// ErrAccountNotFound indicates that no saved account matches.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAmbiguousAccount indicates several saved accounts and no name to pick one.
	ErrAmbiguousAccount = errors.New("several accounts saved, choose one with --account")
	// ErrNoCode indicates a redirect URL without an authorization code.
	ErrNoCode = errors.New("no 'code' parameter found in the URL")
)
