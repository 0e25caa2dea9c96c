package remote

import (
	"context"
	"fmt"

	"github.com/swoga/ddwrt-exporter/config"
)

// Shell runs commands on an open connection to a target. It is used by one
// goroutine at a time and must be closed by the caller.
type Shell interface {
	Execute(ctx context.Context, command string) (string, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, target config.Target) (Shell, error)
}

// TransportError is a failure to reach the target or to run a command on it.
type TransportError struct {
	Op      string
	Address string
	Command string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s %s %q: %s", e.Op, e.Address, e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Address, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
