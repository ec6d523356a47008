package orchestrators

import (
	"errors"

	"gohuddleup/internal/adapters/storage"
)

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
