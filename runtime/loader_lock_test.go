package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhmouse/asteria-go/runtime"
)

func TestLoaderLockAcquireSucceedsOnFreshPath(t *testing.T) {
	l := runtime.NewLoaderLock()
	release, err := l.Acquire("a.asteria")
	require.NoError(t, err)
	require.NotNil(t, release)
	release()
}

func TestLoaderLockRejectsRecursiveLoadOfSamePath(t *testing.T) {
	l := runtime.NewLoaderLock()
	release, err := l.Acquire("a.asteria")
	require.NoError(t, err)
	defer release()

	_, err = l.Acquire("a.asteria")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular import")
}

func TestLoaderLockAllowsReacquisitionAfterRelease(t *testing.T) {
	l := runtime.NewLoaderLock()
	release, err := l.Acquire("a.asteria")
	require.NoError(t, err)
	release()

	_, err = l.Acquire("a.asteria")
	require.NoError(t, err)
}

func TestLoaderLockTracksDistinctPathsIndependently(t *testing.T) {
	l := runtime.NewLoaderLock()
	releaseA, err := l.Acquire("a.asteria")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := l.Acquire("b.asteria")
	require.NoError(t, err)
	defer releaseB()
}
