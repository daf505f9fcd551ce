package repository

import (
	"context"
	"errors"

	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/mappers"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDirectoryRepository struct {
	DB *gorm.DB
}

func NewDefaultDirectoryRepository(db *gorm.DB) *DefaultDirectoryRepository {
	return &DefaultDirectoryRepository{DB: db}
}

func (r *DefaultDirectoryRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var m models.UserModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainUser(&m), nil
}

func (r *DefaultDirectoryRepository) GetOfficeByID(ctx context.Context, id string) (*domain.Office, error) {
	var m models.OfficeModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOffice(&m), nil
}

func (r *DefaultDirectoryRepository) ListAdministrators(ctx context.Context) ([]*domain.User, error) {
	var userModels []models.UserModel
	if err := r.DB.WithContext(ctx).
		Where("role = ?", domain.RoleAdministrator).
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(userModels))
	for i := range userModels {
		users[i] = mappers.ToDomainUser(&userModels[i])
	}
	return users, nil
}

func (r *DefaultDirectoryRepository) ListUsersByOffice(ctx context.Context, officeID string) ([]*domain.User, error) {
	var userModels []models.UserModel
	if err := r.DB.WithContext(ctx).
		Where("office_id = ?", officeID).
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(userModels))
	for i := range userModels {
		users[i] = mappers.ToDomainUser(&userModels[i])
	}
	return users, nil
}
