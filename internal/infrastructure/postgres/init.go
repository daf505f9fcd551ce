package postgres

import (
	"log"

	"github.com/proc-track/workflow-service/internal/config"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.TrackerConfig) *gorm.DB {
	dsn := cfg.TrackerDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.OfficeModel{},
		&models.UserModel{},
		&models.WorkflowModel{},
		&models.WorkflowStepModel{},
		&models.ProcurementModel{},
		&models.TransactionModel{},
		&models.TransactionActionModel{},
		&models.StatusChangeModel{},
		&models.ProcurementStatusChangeModel{},
		&models.NotificationModel{},
	)

	return db
}
