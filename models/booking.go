package models

import "time"

// Booking is one recorded court reservation. Date, Time and Court are kept
// as the raw strings the extraction pipeline recovered; the pipeline
// guarantees their textual shape, not their calendar validity.
type Booking struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"foreignKey:UserID;references:ID"`
	Date      string `gorm:"size:32;not null"`
	Time      string `gorm:"size:32;not null"`
	Court     string `gorm:"size:32;not null"`
}
