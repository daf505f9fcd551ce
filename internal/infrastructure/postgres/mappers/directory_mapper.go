package mappers

import (
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
)

func ToDomainOffice(m *models.OfficeModel) *domain.Office {
	return &domain.Office{
		ID:      m.ID,
		Name:    m.Name,
		Acronym: m.Acronym,
	}
}

func ToDomainUser(m *models.UserModel) *domain.User {
	return &domain.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     domain.Role(m.Role),
		OfficeID: m.OfficeID,
	}
}

func ToGORMNotification(n *domain.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:            n.ID,
		RecipientID:   n.RecipientID,
		Kind:          string(n.Kind),
		TransactionID: n.TransactionID,
		Reference:     n.Reference,
		Message:       n.Message,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

func ToGORMProcurement(p *domain.Procurement) *models.ProcurementModel {
	return &models.ProcurementModel{
		ID:          p.ID,
		Title:       p.Title,
		Amount:      p.Amount,
		Status:      string(p.Status),
		CreatedByID: p.CreatedByID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToDomainProcurement(m *models.ProcurementModel) *domain.Procurement {
	return &domain.Procurement{
		ID:          m.ID,
		Title:       m.Title,
		Amount:      m.Amount,
		Status:      domain.ProcurementStatus(m.Status),
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
