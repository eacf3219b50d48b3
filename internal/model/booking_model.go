package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex:uq_bookings_email;not null"`
	Date      time.Time `gorm:"type:date;not null"`
	Time      string    `gorm:"type:varchar(5);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}
