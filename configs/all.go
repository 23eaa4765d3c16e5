package configs

import (
	"fmt"
	"iter"
)

// All decodes the value at path from every file defining it, in file order.
// Iteration ends after the first error.
func All[T any](loader Loader, path string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for value, err := range loader.IterCueValues(path) {
			var v T
			if err == nil {
				if decodeErr := value.Decode(&v); decodeErr != nil {
					err = fmt.Errorf("decode %s: %w", path, decodeErr)
				}
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}
