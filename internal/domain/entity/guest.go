package entity

import (
	"time"
)

// Guest represents one traveler on a reservation. Guests are created
// alongside their reservation and removed with it.
type Guest struct {
	ID               string    `bson:"_id,omitempty"`
	ReservationID    string    `bson:"reservationId"`
	IsMainGuest      bool      `bson:"isMainGuest"`
	DocumentTypeCode string    `bson:"documentType"`
	DocumentNumber   string    `bson:"documentNumber"`
	FirstName        string    `bson:"firstName"`
	LastName         string    `bson:"lastName"`
	BirthDate        time.Time `bson:"birthDate"`
	Nationality      string    `bson:"nationality"`
	PhoneNumber      string    `bson:"phoneNumber"`
	Email            string    `bson:"email"`
	IsCompleted      bool      `bson:"isCompleted"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

// GuestInput is a traveler as submitted on a reservation request
type GuestInput struct {
	IsMainGuest      bool      `json:"isMainGuest,omitempty"`
	DocumentTypeCode string    `json:"documentType"`
	DocumentNumber   string    `json:"documentNumber"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	BirthDate        time.Time `json:"birthDate"`
	Nationality      string    `json:"nationality"`
	PhoneNumber      string    `json:"phoneNumber"`
	Email            string    `json:"email"`
	IsCompleted      bool      `json:"isCompleted,omitempty"`
}
