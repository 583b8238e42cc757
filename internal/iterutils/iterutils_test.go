package iterutils_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-authors/internal/iterutils"
)

func TestCollect(t *testing.T) {
	seq := iterutils.WithoutErrors(slices.Values([]int{3, 1, 2}))

	values, err := iterutils.Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, values)
}

func TestCollectStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(int, error) bool) {
		if !yield(1, nil) {
			return
		}
		if !yield(0, boom) {
			return
		}
		yield(2, nil)
	}

	values, err := iterutils.Collect(seq)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, values)
}

func TestValuesEarlyBreak(t *testing.T) {
	n := 0
	for range iterutils.Values([]string{"a", "b", "c"}) {
		n += 1
		if n == 2 {
			break
		}
	}

	assert.Equal(t, 2, n)
}
