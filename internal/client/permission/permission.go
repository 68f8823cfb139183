// Package permission models camera and photo-library authorization.
package permission

import (
	"context"
	"errors"
	"fmt"
)

type Status string

const (
	Authorized    Status = "authorized"
	Limited       Status = "limited"
	NotDetermined Status = "notDetermined"
	Denied        Status = "denied"
	Restricted    Status = "restricted"
)

type Resource string

const (
	Camera       Resource = "camera"
	PhotoLibrary Resource = "photoLibrary"
)

var (
	ErrDenied     = errors.New("permission denied")
	ErrRestricted = errors.New("permission restricted")
	ErrUnknown    = errors.New("unknown permission status")
)

// Gateway reports and requests access to a resource.
type Gateway interface {
	Status(ctx context.Context, r Resource) (Status, error)
	// Request asks for access when the status is not yet determined and
	// returns the resulting status.
	Request(ctx context.Context, r Resource) (Status, error)
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Authorized, Limited, NotDetermined, Denied, Restricted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Require returns nil when r may be used, requesting access first if needed.
func Require(ctx context.Context, g Gateway, r Resource) error {
	st, err := g.Status(ctx, r)
	if err != nil {
		return err
	}
	if st == NotDetermined {
		if st, err = g.Request(ctx, r); err != nil {
			return err
		}
	}

	switch st {
	case Authorized, Limited:
		return nil
	case Denied, NotDetermined:
		return fmt.Errorf("%s: %w", r, ErrDenied)
	case Restricted:
		return fmt.Errorf("%s: %w", r, ErrRestricted)
	}
	return fmt.Errorf("%s: %w", r, ErrUnknown)
}
