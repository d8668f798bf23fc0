// Package host exposes the managed host's file and command capabilities.
//
// Every call states the privilege it needs; nothing assumes an ambient
// privileged context.
package host

import "context"

// Privilege selects how an operation is elevated.
type Privilege int

const (
	// None runs with the caller's own rights.
	None Privilege = iota
	// Try elevates when not already privileged and falls back to the caller's rights.
	Try
	// Require fails when elevation is not possible.
	Require
)

func (p Privilege) String() string {
	switch p {
	case Try:
		return "try"
	case Require:
		return "require"
	default:
		return "none"
	}
}

// Files reads and replaces files keyed by path.
type Files interface {
	// Read returns the full content. Absence is reported as fs.ErrNotExist.
	Read(ctx context.Context, path string) ([]byte, error)
	// Replace overwrites path with data; a concurrent reader sees either the
	// old or the new content, never a partial write.
	Replace(ctx context.Context, path string, data []byte, priv Privilege) error
}

// Commands executes programs on the host.
type Commands interface {
	Run(ctx context.Context, argv []string, priv Privilege) ([]byte, error)
	RunWithInput(ctx context.Context, argv []string, input []byte, priv Privilege) ([]byte, error)
}
