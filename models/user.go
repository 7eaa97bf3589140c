package models

import (
	"time"
)

// User is a Telegram user known to the bot. New users start unapproved and
// may not submit bookings until an administrator approves them.
type User struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TelegramID int64  `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"size:255"`
	IsAdmin    bool   `gorm:"default:false"`
	IsApproved bool   `gorm:"default:false;index"`
	Bookings   []Booking
}
