// Package parallel provides the join-set used to fan out independent units of
// work and wait for all of them.
package parallel

import (
	"fmt"
	"sync"
)

// ErrorCollector keeps the first non-nil error reported by concurrent
// units of work. The zero value is ready to use. Err must only be read
// once every reporter has returned.
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err unless an error is already held. nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() { c.err = err })
}

// Err returns the first recorded error.
func (c *ErrorCollector) Err() error { return c.err }

// PanicError carries a value recovered from a panicking unit of work along
// with the stack of the goroutine that raised it.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: unit of work panicked: %v", e.Value)
}
