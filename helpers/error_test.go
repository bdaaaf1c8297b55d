package helpers

import (
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	err := FoldErrors([]error{errors.Errorf("one"), nil, errors.Errorf("two")})
	require.Error(t, err)
	assert.Equal(t, "one\ntwo", err.Error())
}

func TestErrChan(t *testing.T) {
	t.Parallel()

	wg := sync.WaitGroup{}
	errch := make(chan error, 3)
	wg.Add(3)
	go WrapErrChan(&wg, errch, func() error { return nil })
	go WrapErrChan(&wg, errch, func() error { return errors.Errorf("probe failed") })
	go WrapErrChan(&wg, errch, func() error { return nil })
	wg.Wait()
	close(errch)
	err := FoldErrChan(errch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe failed")
}
