package models

import "time"

// Admin is a marker row: its existence for a user id grants admin capability.
type Admin struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
