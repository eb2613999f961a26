package model

import "time"

const MaxMessageLength = 140

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
