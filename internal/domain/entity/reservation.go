package entity

import (
	"time"
)

// Reservation status
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Reservation represents a room booking. CheckOutDate is exclusive: the
// checkout day itself is not an occupied date.
type Reservation struct {
	ID              string    `bson:"_id,omitempty"`
	UserID          string    `bson:"userId"`
	RoomID          string    `bson:"roomId"`
	CheckInDate     time.Time `bson:"checkInDate"`
	CheckOutDate    time.Time `bson:"checkOutDate"`
	TotalPrice      float64   `bson:"totalPrice"`
	Status          string    `bson:"status"`
	GuestCount      int       `bson:"guestCount"`
	MaxCapacity     int       `bson:"maxCapacity"`
	ServiceIDs      []string  `bson:"serviceIds"`
	SpecialRequests string    `bson:"specialRequests,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// StayInterval is the projection of a reservation used for occupancy checks
type StayInterval struct {
	CheckInDate  time.Time `bson:"checkInDate"`
	CheckOutDate time.Time `bson:"checkOutDate"`
	Status       string    `bson:"status"`
}

// ReservationInput is a reservation request as submitted by a caller,
// validated once at the boundary before any store access
type ReservationInput struct {
	UserID          string       `json:"userId"`
	RoomID          string       `json:"roomId"`
	CheckInDate     time.Time    `json:"checkInDate"`
	CheckOutDate    time.Time    `json:"checkOutDate"`
	TotalPrice      float64      `json:"totalPrice"`
	GuestCount      int          `json:"guestCount,omitempty"`
	MaxCapacity     int          `json:"maxCapacity,omitempty"`
	ServiceIDs      []string     `json:"serviceIds,omitempty"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	Guests          []GuestInput `json:"guests,omitempty"`
	RecipientEmail  string       `json:"recipientEmail,omitempty"`
}
