package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection names used with the directory's CreateRecord.
const (
	CollectionRegistrations = "registrations"
	CollectionContacts      = "contacts"
)

const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

var ErrMissingScreenshot = errors.New("registration has no payment screenshot url")

// Registration is created once by the registration workflow and never updated by it.
// PaymentStatus moves to verified/rejected out-of-band.
type Registration struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"not null;index"`
	Phone string `json:"phone,omitempty"`
	Team  string `json:"team,omitempty"`
	Game  string `json:"game" gorm:"not null"`

	TournamentID string `json:"tournament" gorm:"column:tournament;not null;index"`
	PlayerLevel  string `json:"player_level" gorm:"default:'beginner'"`

	PaymentScreenshotURL string `json:"payment_screenshot_url" gorm:"not null"`
	PaymentStatus        string `json:"payment_status" gorm:"default:'pending';index"` // pending | verified | rejected

	RegistrationDate time.Time `json:"registration_date"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (r *Registration) RecordID() string { return r.ID }

// BeforeCreate assigns an id and refuses rows without an uploaded screenshot.
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.PaymentScreenshotURL == "" {
		return ErrMissingScreenshot
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = PaymentPending
	}
	return nil
}
