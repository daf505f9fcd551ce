package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/proc-track/workflow-service/internal/domain"
)

type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepUpcoming  StepStatus = "upcoming"
)

type Severity string

const (
	SeverityOnTrack Severity = "on_track"
	SeverityWarning Severity = "warning"
	SeverityOverdue Severity = "overdue"
)

type Step struct {
	StepOrder    int        `json:"step_order"`
	OfficeID     string     `json:"office_id"`
	OfficeName   string     `json:"office_name"`
	ExpectedDays int        `json:"expected_days"`
	IsFinalStep  bool       `json:"is_final_step"`
	Status       StepStatus `json:"status"`

	// Current step only.
	Holder     string     `json:"holder,omitempty"`
	DaysAtStep int        `json:"days_at_step,omitempty"`
	ETA        *time.Time `json:"eta,omitempty"`
	IsOverdue  bool       `json:"is_overdue,omitempty"`
	Severity   Severity   `json:"severity,omitempty"`

	// Upcoming steps only.
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
}

type Timeline struct {
	Steps              []Step `json:"steps"`
	TotalSteps         int    `json:"total_steps"`
	CompletedSteps     int    `json:"completed_steps"`
	ProgressPercentage int    `json:"progress_percentage"`
	IsOutOfWorkflow    bool   `json:"is_out_of_workflow"`
}

type HistoryEntry struct {
	ID                string            `json:"id"`
	ActionType        domain.ActionType `json:"action_type"`
	FromUser          string            `json:"from_user"`
	ToUser            string            `json:"to_user,omitempty"`
	FromOffice        string            `json:"from_office"`
	ToOffice          string            `json:"to_office,omitempty"`
	IsOutOfWorkflow   bool              `json:"is_out_of_workflow"`
	Notes             string            `json:"notes,omitempty"`
	Reason            string            `json:"reason,omitempty"`
	WorkflowStepOrder int               `json:"workflow_step_order,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Calculator is a read-only projection over workflow configuration and the
// action log. It never mutates state.
type Calculator struct {
	TxnRepo           domain.TransactionRepository
	WorkflowRepo      domain.WorkflowRepository
	Directory         domain.DirectoryRepository
	Now               domain.Clock
	IdleThresholdDays int
}

func NewCalculator(
	txnRepo domain.TransactionRepository,
	workflowRepo domain.WorkflowRepository,
	directory domain.DirectoryRepository,
	now domain.Clock,
	idleThresholdDays int,
) *Calculator {
	return &Calculator{
		TxnRepo:           txnRepo,
		WorkflowRepo:      workflowRepo,
		Directory:         directory,
		Now:               now,
		IdleThresholdDays: idleThresholdDays,
	}
}

// Classify buckets a delay into a severity using the configured idle
// threshold: zero delay is on track, a delay within the threshold is a
// warning, anything beyond is overdue.
func (c *Calculator) Classify(delayDays int) Severity {
	switch {
	case delayDays == 0:
		return SeverityOnTrack
	case delayDays <= c.IdleThresholdDays:
		return SeverityWarning
	default:
		return SeverityOverdue
	}
}

func (c *Calculator) GetTimeline(ctx context.Context, transactionID string) (*Timeline, error) {
	txn, err := c.TxnRepo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	actions, err := c.TxnRepo.ListActions(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actions: %w", err)
	}
	tainted := false
	for _, a := range actions {
		if a.IsOutOfWorkflow {
			tainted = true
			break
		}
	}

	// No workflow assigned: empty step list is a valid answer, not an error.
	if txn.WorkflowID == "" {
		return &Timeline{Steps: []Step{}, IsOutOfWorkflow: tainted}, nil
	}

	wf, err := c.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	currentOrder := 0 // 0: not yet stepped into the workflow
	if txn.CurrentStepID != "" {
		if step := wf.StepByID(txn.CurrentStepID); step != nil {
			currentOrder = step.StepOrder
		}
	}

	now := c.Now()
	steps := make([]Step, 0, len(wf.Steps))
	completed := 0
	var currentETA *time.Time

	for i := range wf.Steps {
		ws := wf.Steps[i]
		s := Step{
			StepOrder:    ws.StepOrder,
			OfficeID:     ws.OfficeID,
			ExpectedDays: ws.ExpectedDays,
			IsFinalStep:  ws.IsFinalStep,
		}
		if office, err := c.Directory.GetOfficeByID(ctx, ws.OfficeID); err == nil {
			s.OfficeName = office.Name
		}

		switch {
		case txn.Status == domain.StatusCompleted || ws.StepOrder < currentOrder:
			s.Status = StepCompleted
			completed++
		case ws.StepOrder == currentOrder:
			s.Status = StepCurrent
			c.annotateCurrent(ctx, txn, &s, now)
			currentETA = s.ETA
		default:
			s.Status = StepUpcoming
		}
		steps = append(steps, s)
	}

	// Chain estimated arrivals forward from the current step's ETA.
	if currentETA != nil {
		arrival := *currentETA
		for i := range steps {
			if steps[i].Status != StepUpcoming {
				continue
			}
			at := arrival
			steps[i].EstimatedArrival = &at
			arrival = AddBusinessDays(arrival, steps[i].ExpectedDays)
		}
	}

	tl := &Timeline{
		Steps:           steps,
		TotalSteps:      len(steps),
		CompletedSteps:  completed,
		IsOutOfWorkflow: tainted,
	}
	if tl.TotalSteps > 0 {
		tl.ProgressPercentage = int(float64(tl.CompletedSteps)/float64(tl.TotalSteps)*100 + 0.5)
	}
	return tl, nil
}

func (c *Calculator) annotateCurrent(ctx context.Context, txn *domain.Transaction, s *Step, now time.Time) {
	if txn.CurrentUserID != "" {
		if holder, err := c.Directory.GetUserByID(ctx, txn.CurrentUserID); err == nil {
			s.Holder = holder.Name
		}
	}
	if txn.ReceivedAt == nil {
		// In transit: endorsed but not yet received, nothing to project from.
		s.Severity = SeverityOnTrack
		return
	}
	s.DaysAtStep = int(now.Sub(*txn.ReceivedAt).Hours() / 24)
	eta := AddBusinessDays(*txn.ReceivedAt, s.ExpectedDays)
	s.ETA = &eta
	delayDays, overdue := Delay(*txn.ReceivedAt, s.ExpectedDays, now)
	s.IsOverdue = overdue
	s.Severity = c.Classify(delayDays)
}

// GetActionHistory returns the transaction's full action trail in
// chronological order, with user and office names resolved.
func (c *Calculator) GetActionHistory(ctx context.Context, transactionID string) ([]HistoryEntry, error) {
	txn, err := c.TxnRepo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	actions, err := c.TxnRepo.ListActions(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actions: %w", err)
	}

	var wf *domain.Workflow
	if txn.WorkflowID != "" {
		wf, _ = c.WorkflowRepo.GetWorkflowByID(ctx, txn.WorkflowID)
	}

	userNames := map[string]string{}
	officeNames := map[string]string{}
	userName := func(id string) string {
		if id == "" {
			return ""
		}
		if name, ok := userNames[id]; ok {
			return name
		}
		name := id
		if u, err := c.Directory.GetUserByID(ctx, id); err == nil {
			name = u.Name
		}
		userNames[id] = name
		return name
	}
	officeName := func(id string) string {
		if id == "" {
			return ""
		}
		if name, ok := officeNames[id]; ok {
			return name
		}
		name := id
		if o, err := c.Directory.GetOfficeByID(ctx, id); err == nil {
			name = o.Name
		}
		officeNames[id] = name
		return name
	}

	entries := make([]HistoryEntry, 0, len(actions))
	for _, a := range actions {
		entry := HistoryEntry{
			ID:              a.ID,
			ActionType:      a.ActionType,
			FromUser:        userName(a.FromUserID),
			ToUser:          userName(a.ToUserID),
			FromOffice:      officeName(a.FromOfficeID),
			ToOffice:        officeName(a.ToOfficeID),
			IsOutOfWorkflow: a.IsOutOfWorkflow,
			Notes:           a.Notes,
			Reason:          a.Reason,
			CreatedAt:       a.CreatedAt,
		}
		if wf != nil && a.WorkflowStepID != "" {
			if step := wf.StepByID(a.WorkflowStepID); step != nil {
				entry.WorkflowStepOrder = step.StepOrder
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
