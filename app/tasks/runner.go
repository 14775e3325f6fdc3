package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Runner executes tasks one after another. A task failing with
// ErrExportUnreadable is logged and the next task runs; any other error
// stops the run.
type Runner struct {
	tasks []TaskInterface
}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Enqueue(task TaskInterface) {
	r.tasks = append(r.tasks, task)
}

func (r *Runner) Len() int {
	return len(r.tasks)
}

// Run returns the number of tasks that failed without stopping the run
func (r *Runner) Run(ctx context.Context) (int, error) {
	failed := 0

	for _, task := range r.tasks {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		task.Start()
		slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID(), "name", task.GetName())

		err := task.Execute(ctx)
		if err == nil {
			continue
		}

		if errors.Is(err, ErrExportUnreadable) {
			slog.Error("Task execution failed, continuing", "type", string(task.GetType()), "id", task.GetID(), "name", task.GetName(), "error", err)
			failed++
			continue
		}

		return failed, fmt.Errorf("task %s (%s) failed: %w", task.GetName(), task.GetType(), err)
	}

	return failed, nil
}
