package models

import "time"

type OfficeModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"not null"`
	Acronym   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OfficeModel) TableName() string {
	return "offices"
}

type UserModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex"`
	Role      string `gorm:"index;not null"`
	OfficeID  string `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

type NotificationModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	RecipientID   string `gorm:"type:uuid;index;not null"`
	Kind          string `gorm:"not null"`
	TransactionID string `gorm:"type:uuid;index"`
	Reference     string
	Message       string `gorm:"not null"`
	IsRead        bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}
