package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for the failures the views and the bootstrapper branch on.
var (
	ErrNotFound = errors.New("requested resource not found")

	// ErrAuthorizationAborted indicates the user backed out of the interactive
	// authorization flow (the provider redirected back with access_denied).
	ErrAuthorizationAborted = errors.New("authorization aborted by user")

	// ErrNoPriorSession indicates no restorable authorization state exists for
	// the browser.
	ErrNoPriorSession = errors.New("no prior session")

	// ErrPageNotFound is returned for fragment requests referencing an unknown
	// or expired page instance.
	ErrPageNotFound = errors.New("page instance not found")
)
