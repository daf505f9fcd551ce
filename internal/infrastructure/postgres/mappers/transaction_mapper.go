package mappers

import (
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToGORMTransaction(txn *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:              txn.ID,
		ReferenceNumber: txn.ReferenceNumber,
		Category:        string(txn.Category),
		Title:           txn.Title,
		Amount:          txn.Amount,
		Status:          string(txn.Status),

		ProcurementID:   nullable(txn.ProcurementID),
		WorkflowID:      nullable(txn.WorkflowID),
		CurrentStepID:   nullable(txn.CurrentStepID),
		CurrentOfficeID: nullable(txn.CurrentOffice),
		CurrentUserID:   nullable(txn.CurrentUserID),

		CreatedByID:    txn.CreatedByID,
		OriginOfficeID: txn.OriginOffID,

		ReceivedAt:            txn.ReceivedAt,
		EndorsedAt:            txn.EndorsedAt,
		LastOverdueNotifiedAt: txn.LastOverdueNotifiedAt,

		CreatedAt: txn.CreatedAt,
		UpdatedAt: txn.UpdatedAt,
	}
}

func ToDomainTransaction(m *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:              m.ID,
		ReferenceNumber: m.ReferenceNumber,
		Category:        domain.Category(m.Category),
		Title:           m.Title,
		Amount:          m.Amount,
		Status:          domain.TransactionStatus(m.Status),

		ProcurementID: stringValue(m.ProcurementID),
		WorkflowID:    stringValue(m.WorkflowID),
		CurrentStepID: stringValue(m.CurrentStepID),
		CurrentOffice: stringValue(m.CurrentOfficeID),
		CurrentUserID: stringValue(m.CurrentUserID),

		CreatedByID: m.CreatedByID,
		OriginOffID: m.OriginOfficeID,

		ReceivedAt:            m.ReceivedAt,
		EndorsedAt:            m.EndorsedAt,
		LastOverdueNotifiedAt: m.LastOverdueNotifiedAt,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToGORMAction(action *domain.TransactionAction) *models.TransactionActionModel {
	return &models.TransactionActionModel{
		ID:              action.ID,
		TransactionID:   action.TransactionID,
		ActionType:      string(action.ActionType),
		FromOfficeID:    nullable(action.FromOfficeID),
		ToOfficeID:      nullable(action.ToOfficeID),
		FromUserID:      nullable(action.FromUserID),
		ToUserID:        nullable(action.ToUserID),
		ActionTakenID:   nullable(action.ActionTakenID),
		WorkflowStepID:  nullable(action.WorkflowStepID),
		IsOutOfWorkflow: action.IsOutOfWorkflow,
		Notes:           action.Notes,
		Reason:          action.Reason,
		IPAddress:       action.IPAddress,
		CreatedAt:       action.CreatedAt,
	}
}

func ToDomainAction(m *models.TransactionActionModel) *domain.TransactionAction {
	return &domain.TransactionAction{
		ID:              m.ID,
		TransactionID:   m.TransactionID,
		ActionType:      domain.ActionType(m.ActionType),
		FromOfficeID:    stringValue(m.FromOfficeID),
		ToOfficeID:      stringValue(m.ToOfficeID),
		FromUserID:      stringValue(m.FromUserID),
		ToUserID:        stringValue(m.ToUserID),
		ActionTakenID:   stringValue(m.ActionTakenID),
		WorkflowStepID:  stringValue(m.WorkflowStepID),
		IsOutOfWorkflow: m.IsOutOfWorkflow,
		Notes:           m.Notes,
		Reason:          m.Reason,
		IPAddress:       m.IPAddress,
		CreatedAt:       m.CreatedAt,
	}
}

func ToGORMStatusChange(change *domain.StatusChange) *models.StatusChangeModel {
	return &models.StatusChangeModel{
		ID:            change.ID,
		TransactionID: change.TransactionID,
		OldStatus:     string(change.OldStatus),
		NewStatus:     string(change.NewStatus),
		Reason:        change.Reason,
		ChangedByID:   nullable(change.ChangedByID),
		CreatedAt:     change.CreatedAt,
	}
}
