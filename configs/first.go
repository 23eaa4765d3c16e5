package configs

import (
	"errors"
)

// First decodes the value at path from the first file defining it. A path no
// file defines yields the zero value and no error.
func First[T any](loader Loader, path string) (value T, err error) {
	if err := loader.AssignFirst(path, &value); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return value, nil
		}
		return value, err
	}
	return value, nil
}
