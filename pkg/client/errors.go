// Package client implements the remote sync client for the external
// users REST API. The remote collaborator is a mock API with CRUD
// semantics but no persistence guarantee; callers must treat every
// success response as confirmation of the single call only.
package client

import "errors"

// Sentinel errors for remote sync outcomes. Callers match them with
// errors.Is; each operation abandons on failure and is never retried
// automatically.
var (
	// ErrNetwork signals a transport-level failure.
	ErrNetwork = errors.New("network failure")
	// ErrDecode signals an unreadable or malformed response body.
	ErrDecode = errors.New("malformed response")
	// ErrNotFound signals a non-success status on a read.
	ErrNotFound = errors.New("user not found")
	// ErrCreateRejected signals the remote did not answer a create
	// with the created status.
	ErrCreateRejected = errors.New("create rejected by remote")
	// ErrUpdate signals a non-success status on an update.
	ErrUpdate = errors.New("update rejected by remote")
	// ErrDelete signals a non-success status on a delete.
	ErrDelete = errors.New("delete rejected by remote")
)
