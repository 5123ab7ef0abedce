package off

import (
	"errors"
	"fmt"
)

// ErrTransport marks network-level failures (DNS, refused connection,
// timeout) as opposed to responses the server actually produced.
var ErrTransport = errors.New("open food facts request failed")

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("open food facts returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("open food facts returned status %d: %s", e.StatusCode, e.Body)
}
