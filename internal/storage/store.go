package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

var (
	// ErrNotFound is returned when no colormap is stored under a name.
	ErrNotFound = errors.New("colormap not found")

	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid colormap name")

	// ErrBuiltinReadOnly is returned when deleting a builtin colormap.
	ErrBuiltinReadOnly = errors.New("builtin colormaps cannot be deleted")
)

// Store persists user-defined colormaps.
// Implementations are safe for concurrent use.
type Store interface {
	// Save writes a colormap under its name, replacing any previous version.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - cm: Colormap to store. It must hold at least 2 stops and a valid name
	//
	// Returns:
	//   - error: If the colormap is invalid, storage fails or context is cancelled
	Save(ctx context.Context, cm *colormap.ColorMap) error

	// Load reads the colormap stored under name.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - name: Colormap name
	//
	// Returns:
	//   - cm: Decoded colormap
	//   - error: ErrNotFound if nothing is stored under name, or a decode error
	Load(ctx context.Context, name string) (cm *colormap.ColorMap, err error)

	// List returns the names of all stored colormaps in ascending order.
	List(ctx context.Context) (names []string, err error)

	// Delete removes the colormap stored under name.
	// Returns ErrNotFound if nothing is stored under name.
	Delete(ctx context.Context, name string) error

	// Close releases resources held by the store.
	// It is safe to call Close multiple times.
	Close() error
}

// validateName rejects names that cannot safely be used as a file name.
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

func validateColorMap(cm *colormap.ColorMap) error {
	if err := validateName(cm.Name()); err != nil {
		return err
	}
	if err := cm.Validate(); err != nil {
		return fmt.Errorf("validating colormap %q: %w", cm.Name(), err)
	}
	return nil
}
