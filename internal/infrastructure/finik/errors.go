package finik

import (
	"errors"
	"fmt"
)

// ProviderError means Finik answered and rejected the request. Carries the
// upstream HTTP status so callers can tell rejection from unreachability.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("finik rejected request (status: %d): %s", e.StatusCode, e.Body)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}

// ErrUnreachable wraps transport failures where no response arrived at all.
// Callers may retry the whole initiation; no local state was committed.
var ErrUnreachable = errors.New("finik is unreachable")
