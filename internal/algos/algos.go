// Package algos provides the addressing used to walk a coordinate run.
package algos

import (
	"fmt"
)

// MaxRunLength is the longest run an addressor will walk.
const MaxRunLength = 1 << 20

// Error types

// EmptyPoolError is returned when an addressor is called after it has handed out every cell of its run.
type EmptyPoolError struct{}

func (e EmptyPoolError) Error() string {
	return "The pool of run addresses is empty."
}

// InvalidRunError is returned when a run is given a negative length or one longer than MaxRunLength.
type InvalidRunError struct {
	Length int
}

func (e InvalidRunError) Error() string {
	return fmt.Sprintf("The run length (%d) must be between 0 and %d.", e.Length, MaxRunLength)
}

// Addressor closures

// RunAddressor hands out the cells (x, y), (x+1, y), ..., (x+length-1, y) in order.
// It never wraps to the next row; cells past the right edge are still handed out so the caller can report them.
func RunAddressor(x, y, length int) (func() (int, int, error), error) {
	if length < 0 || length > MaxRunLength {
		return nil, &InvalidRunError{length}
	}
	i := -1
	return func() (int, int, error) {
		i++
		if i >= length {
			return -1, -1, &EmptyPoolError{}
		}
		return x + i, y, nil
	}, nil
}

// Fits reports whether the run lies fully inside a w*h grid.
// x+length is never computed, so huge values cannot wrap around.
func Fits(x, y, length, w, h int) bool {
	return x >= 0 && y >= 0 && length >= 0 && y < h && x <= w && length <= w-x
}
