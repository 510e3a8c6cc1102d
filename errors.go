package neogo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/neogo/dataset"
)

var (
	// ErrNotFound is returned when an item is not found.
	ErrNotFound = errors.New("not found")
)

// translateError normalizes subpackage errors at the API boundary so that
// callers only have to match the root sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification. dataset.ErrNotFound aliases os.ErrNotExist,
	// so missing local files unify as well.
	if errors.Is(err, dataset.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
