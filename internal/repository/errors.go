// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrDuplicateName is returned when inserting a company or job fair
// whose unique name collides with an existing row. Handlers should
// translate this into an HTTP 400 validation response.
var ErrDuplicateName = errors.New("duplicate name")
