package simval

import (
	"github.com/pkg/errors"
)

// NormalizeSizes returns one size per run. A single size is used by every run, a shorter list
// is extended by repeating its last size and a longer list is truncated to nRuns.
func NormalizeSizes(nRuns int, sizes []int) ([]int, error) {
	if nRuns <= 0 {
		return nil, configErr("validate", errors.Wrapf(ErrInvalidRuns, "got %d", nRuns))
	}
	if len(sizes) == 0 {
		return nil, configErr("validate", ErrNoSizes)
	}
	for i, size := range sizes {
		if size <= 0 {
			return nil, configErr("validate", errors.Wrapf(ErrInvalidSize, "sizes[%d] is %d", i, size))
		}
	}

	out := make([]int, nRuns)
	last := sizes[len(sizes)-1]
	for i := range out {
		if i < len(sizes) {
			out[i] = sizes[i]
			continue
		}
		out[i] = last
	}

	return out, nil
}
