package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ContactUnread = "unread"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"default:'unread'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ContactMessage) TableName() string { return CollectionContacts }

func (m *ContactMessage) RecordID() string { return m.ID }

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = ContactUnread
	}
	return nil
}
