// Package bulk applies delete and convert operations across a selected set
// of sessions with independent per-item outcomes.
package bulk

import (
	"time"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/session"
	"github.com/ryz3006/alignzo/worklog"
)

// Operation is a bulk action applied to each selected session.
type Operation string

const (
	OperationDelete  Operation = "delete"
	OperationConvert Operation = "convert"
)

var errUnknownOperation = &apperr.Error{
	Kind:    apperr.KindValidation,
	Message: "unknown bulk operation: %s",
}

// Failure records why a single item could not be processed.
type Failure struct {
	ID     string
	Reason apperr.Kind
	Err    error
}

// Result enumerates every requested id exactly once, either as succeeded or
// as failed. Partial success is the expected outcome of a bulk request, not
// an error state.
type Result struct {
	Succeeded []string
	Failed    []Failure
}

// Total returns the number of outcomes in the result.
func (r Result) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Coordinator fans a bulk operation out over individual sessions. One
// item's failure never aborts or rolls back the others.
type Coordinator struct {
	engine    *session.Engine
	converter *worklog.Converter
}

func NewCoordinator(
	engine *session.Engine,
	converter *worklog.Converter,
) *Coordinator {
	return &Coordinator{
		engine:    engine,
		converter: converter,
	}
}

// Apply runs the operation against each session id independently.
// Ineligible items are reported as failures with their error kind rather
// than silently skipped, so callers can show exactly which items could not
// be processed and why.
func (c *Coordinator) Apply(
	op Operation,
	ids []string,
	userID string,
	now time.Time,
) Result {
	var result Result

	for _, id := range ids {
		var err error

		switch op {
		case OperationDelete:
			err = c.engine.Delete(id, userID)
		case OperationConvert:
			_, err = c.converter.Convert(id, userID, now)
		default:
			err = errUnknownOperation.Fmt(op)
		}

		if err != nil {
			result.Failed = append(result.Failed, Failure{
				ID:     id,
				Reason: apperr.KindOf(err),
				Err:    err,
			})

			continue
		}

		result.Succeeded = append(result.Succeeded, id)
	}

	return result
}
