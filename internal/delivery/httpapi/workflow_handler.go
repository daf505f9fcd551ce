package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/usecase/workflow"
)

type WorkflowHandler struct {
	uc workflow.WorkflowUsecase
}

func NewWorkflowHandler(uc workflow.WorkflowUsecase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

type workflowStepRequest struct {
	OfficeID     string `json:"office_id" binding:"required"`
	StepOrder    int    `json:"step_order" binding:"required,min=1"`
	ExpectedDays int    `json:"expected_days" binding:"min=0"`
	IsFinalStep  bool   `json:"is_final_step"`
}

type workflowRequest struct {
	Name     string                `json:"name" binding:"required"`
	Category string                `json:"category" binding:"required,category"`
	Steps    []workflowStepRequest `json:"steps" binding:"required,min=1,dive"`
}

func (r *workflowRequest) toInput() *workflow.CreateWorkflowInput {
	input := &workflow.CreateWorkflowInput{
		Name:     r.Name,
		Category: r.Category,
		Steps:    make([]workflow.StepInput, 0, len(r.Steps)),
	}
	for _, s := range r.Steps {
		input.Steps = append(input.Steps, workflow.StepInput{
			OfficeID:     s.OfficeID,
			StepOrder:    s.StepOrder,
			ExpectedDays: s.ExpectedDays,
			IsFinalStep:  s.IsFinalStep,
		})
	}
	return input
}

func (h *WorkflowHandler) Create(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	wf, err := h.uc.CreateWorkflow(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workflowResponse(wf))
}

func (h *WorkflowHandler) Update(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	wf, err := h.uc.UpdateWorkflow(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflowResponse(wf))
}

func (h *WorkflowHandler) Get(c *gin.Context) {
	wf, err := h.uc.GetWorkflowByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflowResponse(wf))
}

func (h *WorkflowHandler) List(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		wf, err := h.uc.GetActiveWorkflowByCategory(c.Request.Context(), domain.Category(category))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"workflows": []gin.H{workflowResponse(wf)}})
		return
	}

	workflows, err := h.uc.ListWorkflows(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]gin.H, len(workflows))
	for i, wf := range workflows {
		items[i] = workflowResponse(wf)
	}
	c.JSON(http.StatusOK, gin.H{"workflows": items})
}

func (h *WorkflowHandler) Activate(c *gin.Context) {
	if err := h.uc.ActivateWorkflow(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workflow activated"})
}

func workflowResponse(wf *domain.Workflow) gin.H {
	steps := make([]gin.H, len(wf.Steps))
	for i, s := range wf.Steps {
		steps[i] = gin.H{
			"id":            s.ID,
			"office_id":     s.OfficeID,
			"step_order":    s.StepOrder,
			"expected_days": s.ExpectedDays,
			"is_final_step": s.IsFinalStep,
		}
	}
	return gin.H{
		"id":         wf.ID,
		"name":       wf.Name,
		"category":   wf.Category,
		"is_active":  wf.IsActive,
		"steps":      steps,
		"created_at": wf.CreatedAt,
		"updated_at": wf.UpdatedAt,
	}
}
