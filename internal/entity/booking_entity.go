package entity

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Id        uuid.UUID
	Name      string
	Email     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, 24h
	CreatedAt time.Time
}
