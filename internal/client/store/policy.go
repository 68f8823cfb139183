package store

import "fmt"

// Policy controls what a persistence failure looks like to callers.
type Policy string

const (
	// PolicySwallow logs the failure and returns an empty or unchanged result
	// with a nil error.
	PolicySwallow Policy = "swallow"
	// PolicySurface returns the wrapped failure.
	PolicySurface Policy = "surface"
)

// ParsePolicy validates a policy name. An empty name selects PolicySwallow.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicySwallow:
		return PolicySwallow, nil
	case PolicySurface:
		return PolicySurface, nil
	}
	return "", fmt.Errorf("unknown persistence policy %q", s)
}
