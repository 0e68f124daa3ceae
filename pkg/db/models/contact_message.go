package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a public contact-form submission.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
