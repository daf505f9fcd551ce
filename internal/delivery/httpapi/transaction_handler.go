package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/proc-track/workflow-service/internal/domain"
	transactiondto "github.com/proc-track/workflow-service/internal/usecase/dto/transaction"
	"github.com/proc-track/workflow-service/internal/usecase/timeline"
	"github.com/proc-track/workflow-service/internal/usecase/transaction"
	"github.com/shopspring/decimal"
)

type TimelineCalculator interface {
	GetTimeline(ctx context.Context, transactionID string) (*timeline.Timeline, error)
	GetActionHistory(ctx context.Context, transactionID string) ([]timeline.HistoryEntry, error)
}

type TransactionHandler struct {
	uc       transaction.TransactionUsecase
	timeline TimelineCalculator
}

func NewTransactionHandler(uc transaction.TransactionUsecase, calculator TimelineCalculator) *TransactionHandler {
	return &TransactionHandler{uc: uc, timeline: calculator}
}

type createTransactionRequest struct {
	Category      string          `json:"category" binding:"required,category"`
	Title         string          `json:"title" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	ProcurementID string          `json:"procurement_id"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	txn, err := h.uc.Create(c.Request.Context(), &transactiondto.CreateTransactionInput{
		Category:      req.Category,
		Title:         req.Title,
		Amount:        req.Amount,
		ProcurementID: req.ProcurementID,
		CreatedByID:   userID,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transactionResponse(txn))
}

func (h *TransactionHandler) Get(c *gin.Context) {
	txn, err := h.uc.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionResponse(txn))
}

func (h *TransactionHandler) List(c *gin.Context) {
	filter := domain.TransactionFilter{
		Category:  domain.Category(c.Query("category")),
		OfficeID:  c.Query("office_id"),
		CreatedBy: c.Query("created_by"),
		Reference: c.Query("reference"),
	}
	for _, s := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, domain.TransactionStatus(s))
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	transactions, total, err := h.uc.ListTransactions(c.Request.Context(), filter, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]gin.H, len(transactions))
	for i, txn := range transactions {
		items[i] = transactionResponse(txn)
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": items,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

type endorseRequest struct {
	ActionTakenID string `json:"action_taken_id" binding:"required"`
	ToOfficeID    string `json:"to_office_id" binding:"required"`
	Notes         string `json:"notes"`
}

func (h *TransactionHandler) Endorse(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	var req endorseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	err := h.uc.Endorse(c.Request.Context(), &transactiondto.EndorseInput{
		TransactionID: c.Param("id"),
		ActingUserID:  userID,
		ActionTakenID: req.ActionTakenID,
		ToOfficeID:    req.ToOfficeID,
		Notes:         req.Notes,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction endorsed"})
}

func (h *TransactionHandler) Receive(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	err := h.uc.Receive(c.Request.Context(), &transactiondto.ReceiveInput{
		TransactionID: c.Param("id"),
		ActingUserID:  userID,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction received"})
}

type bulkReceiveRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=1"`
}

func (h *TransactionHandler) BulkReceive(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	var req bulkReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	result, err := h.uc.BulkReceive(c.Request.Context(), &transactiondto.BulkReceiveInput{
		TransactionIDs: req.TransactionIDs,
		ActingUserID:   userID,
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type completeRequest struct {
	ActionTakenID string `json:"action_taken_id" binding:"required"`
	Notes         string `json:"notes"`
}

func (h *TransactionHandler) Complete(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	err := h.uc.Complete(c.Request.Context(), &transactiondto.CompleteInput{
		TransactionID: c.Param("id"),
		ActingUserID:  userID,
		ActionTakenID: req.ActionTakenID,
		Notes:         req.Notes,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction completed"})
}

type statusChangeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type resumeRequest struct {
	Reason string `json:"reason"`
}

func (h *TransactionHandler) Hold(c *gin.Context) {
	h.changeStatus(c, h.uc.Hold, true)
}

func (h *TransactionHandler) Cancel(c *gin.Context) {
	h.changeStatus(c, h.uc.Cancel, true)
}

func (h *TransactionHandler) Resume(c *gin.Context) {
	h.changeStatus(c, h.uc.Resume, false)
}

func (h *TransactionHandler) changeStatus(
	c *gin.Context,
	op func(ctx context.Context, input *transactiondto.StatusChangeInput) error,
	reasonRequired bool,
) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	reason := ""
	if reasonRequired {
		var req statusChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindingError(c, err)
			return
		}
		reason = req.Reason
	} else {
		var req resumeRequest
		// Body is optional for resume.
		_ = c.ShouldBindJSON(&req)
		reason = req.Reason
	}

	err := op(c.Request.Context(), &transactiondto.StatusChangeInput{
		TransactionID: c.Param("id"),
		ActingUserID:  userID,
		Reason:        reason,
		IPAddress:     c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *TransactionHandler) Timeline(c *gin.Context) {
	tl, err := h.timeline.GetTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tl)
}

// History returns the action trail; newest-first when order=desc is passed,
// chronological otherwise.
func (h *TransactionHandler) History(c *gin.Context) {
	entries, err := h.timeline.GetActionHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("order") == "desc" {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
	}
	c.JSON(http.StatusOK, gin.H{"actions": entries})
}

func transactionResponse(txn *domain.Transaction) gin.H {
	return gin.H{
		"id":                txn.ID,
		"reference_number":  txn.ReferenceNumber,
		"category":          txn.Category,
		"title":             txn.Title,
		"amount":            txn.Amount,
		"status":            txn.Status,
		"procurement_id":    txn.ProcurementID,
		"workflow_id":       txn.WorkflowID,
		"current_step_id":   txn.CurrentStepID,
		"current_office_id": txn.CurrentOffice,
		"current_user_id":   txn.CurrentUserID,
		"received_at":       txn.ReceivedAt,
		"endorsed_at":       txn.EndorsedAt,
		"created_at":        txn.CreatedAt,
	}
}
