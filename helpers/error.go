package helpers

import (
	"strings"
	"sync"

	"github.com/juju/errors"
)

func FoldErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	ss := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			ss = append(ss, e.Error())
		}
	}
	if len(ss) == 0 {
		return nil
	}
	return errors.Errorf(strings.Join(ss, "\n"))
}

// WrapErrChan runs f and reports a non-nil result into errch.
// Intended use: go WrapErrChan(&wg, errch, initSomething)
func WrapErrChan(wg *sync.WaitGroup, errch chan<- error, f func() error) {
	defer wg.Done()
	if err := f(); err != nil {
		errch <- err
	}
}

// FoldErrChan drains a closed channel into one error.
func FoldErrChan(errch <-chan error) error {
	errs := make([]error, 0, cap(errch))
	for e := range errch {
		errs = append(errs, e)
	}
	return FoldErrors(errs)
}
