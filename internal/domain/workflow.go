package domain

import (
	"fmt"
	"time"
)

// Workflow is an ordered template of office steps for one document category.
// At most one workflow per category is active at a time.
type Workflow struct {
	ID        string
	Name      string
	Category  Category
	IsActive  bool
	Steps     []WorkflowStep // ordered by StepOrder ascending
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WorkflowStep struct {
	ID           string
	WorkflowID   string
	OfficeID     string
	StepOrder    int // 1-based, contiguous per workflow
	ExpectedDays int // business days
	IsFinalStep  bool
}

// ValidateSteps checks the structural invariants of a workflow's step list:
// orders are exactly 1..N with no gaps or duplicates, and exactly one step is
// marked final, which must be the one with the highest order.
func (w *Workflow) ValidateSteps() error {
	if len(w.Steps) == 0 {
		return fmt.Errorf("%w: workflow must have at least one step", ErrInvalidWorkflow)
	}

	seen := make(map[int]bool, len(w.Steps))
	finals := 0
	for _, step := range w.Steps {
		if step.StepOrder < 1 || step.StepOrder > len(w.Steps) {
			return fmt.Errorf("%w: step order %d out of range 1..%d", ErrInvalidWorkflow, step.StepOrder, len(w.Steps))
		}
		if seen[step.StepOrder] {
			return fmt.Errorf("%w: duplicate step order %d", ErrInvalidWorkflow, step.StepOrder)
		}
		seen[step.StepOrder] = true

		if step.IsFinalStep {
			finals++
			if step.StepOrder != len(w.Steps) {
				return fmt.Errorf("%w: final step must have the highest order", ErrInvalidWorkflow)
			}
		}
	}
	if finals != 1 {
		return fmt.Errorf("%w: exactly one step must be final, got %d", ErrInvalidWorkflow, finals)
	}
	return nil
}

// StepByID returns the step with the given id, or nil.
func (w *Workflow) StepByID(stepID string) *WorkflowStep {
	for i := range w.Steps {
		if w.Steps[i].ID == stepID {
			return &w.Steps[i]
		}
	}
	return nil
}

// StepByOrder returns the step with the given order, or nil.
func (w *Workflow) StepByOrder(order int) *WorkflowStep {
	for i := range w.Steps {
		if w.Steps[i].StepOrder == order {
			return &w.Steps[i]
		}
	}
	return nil
}

// NextStep returns the step following the given one, or nil at the end.
func (w *Workflow) NextStep(current *WorkflowStep) *WorkflowStep {
	if current == nil {
		return nil
	}
	return w.StepByOrder(current.StepOrder + 1)
}

// FirstStep returns the step with order 1, or nil.
func (w *Workflow) FirstStep() *WorkflowStep {
	return w.StepByOrder(1)
}
