package ndsfs

import (
	"errors"
	"sync/atomic"
	"testing"

	"gotest.tools/v3/assert"
)

func Test_runner(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		r := runner{parallel: parallel}

		t.Run("all units", func(t *testing.T) {
			results := make([]int, 100)
			err := r.run(len(results), func(i int) error {
				results[i] = i * i
				return nil
			})
			assert.NilError(t, err)
			for i, v := range results {
				assert.Equal(t, v, i*i)
			}
		})

		t.Run("first error", func(t *testing.T) {
			failing := errors.New("unit failed")
			var calls int64
			err := r.run(10, func(i int) error {
				atomic.AddInt64(&calls, 1)
				if i == 3 {
					return failing
				}
				return nil
			})
			assert.ErrorIs(t, err, failing)
			if !parallel {
				// Sequential units stop at the failing one.
				assert.Equal(t, calls, int64(4))
			}
		})

		t.Run("nothing to do", func(t *testing.T) {
			assert.NilError(t, r.run(0, func(i int) error {
				return errors.New("must not be called")
			}))
		})
	}
}
