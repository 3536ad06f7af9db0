package entity

import (
	"time"
)

// Room represents a hotel room
type Room struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	RoomNumber    string    `bson:"roomNumber" json:"roomNumber"`
	Price         float64   `bson:"price" json:"price"`
	Capacity      int       `bson:"capacity" json:"capacity"`
	CategoryCode  string    `bson:"categoryCode" json:"categoryCode"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	IsMaintenance bool      `bson:"isMaintenance" json:"isMaintenance"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
