package parallel

import (
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work submitted to ExecuteTasks.
type Task interface {
	Execute() error
}

// ExecuteTasks runs a batch of tasks either sequentially or as a join-set of
// goroutines, and returns once every task has finished.
//
// In parallel mode the tasks are started on an errgroup, bounded by limit
// when limit > 0. A panic inside a task does not crash the process from the
// worker goroutine: the first panic is captured and re-raised in the caller's
// goroutine after all tasks have been joined. The first non-nil error is
// returned otherwise.
//
// Type Parameters:
//   - T: The value type of the task.
//   - PT: A pointer type to T that implements Task.
//
// Parameters:
//   - tasks: The slice of tasks to execute (values, not pointers).
//   - inParallel: Whether to execute tasks concurrently.
//   - limit: The maximum number of concurrently running tasks (0 = unbounded).
//
// Returns:
//   - error: The first error returned by a task.
func ExecuteTasks[T any, PT interface {
	*T
	Task
}](tasks []T, inParallel bool, limit int) error {
	if !inParallel || len(tasks) < 2 {
		for i := range tasks {
			if err := PT(&tasks[i]).Execute(); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	var panics ErrorCollector
	for i := range tasks {
		t := PT(&tasks[i])
		g.Go(func() error {
			defer capturePanic(&panics)
			return t.Execute()
		})
	}
	err := g.Wait()
	if pe, ok := panics.Err().(*PanicError); ok {
		panic(pe.Value)
	}
	return err
}

// Run is a convenience wrapper over ExecuteTasks for plain closures.
func Run(limit int, fns ...func()) {
	tasks := make([]funcTask, len(fns))
	for i, fn := range fns {
		tasks[i] = funcTask{fn: fn}
	}
	_ = ExecuteTasks[funcTask, *funcTask](tasks, true, limit)
}

type funcTask struct {
	fn func()
}

func (t *funcTask) Execute() error {
	t.fn()
	return nil
}

func capturePanic(c *ErrorCollector) {
	if r := recover(); r != nil {
		c.SetError(&PanicError{Value: r, Stack: debug.Stack()})
	}
}
