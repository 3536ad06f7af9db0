package repository

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGuestRepository implements GuestRepository
type MongoGuestRepository struct {
	collection *mongo.Collection
}

// NewMongoGuestRepository creates a new guest repository
func NewMongoGuestRepository(db *mongo.Database) repository.GuestRepository {
	collection := db.Collection("guests")

	ctx := context.Background()

	// Storage-level backstop for duplicate identities, scoped to
	// (documentNumber, documentType). The conflict detector applies the
	// stricter global check by documentNumber alone before any write.
	documentIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "documentNumber", Value: 1},
			{Key: "documentType", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	reservationIndex := mongo.IndexModel{
		Keys: bson.M{"reservationId": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		documentIndex,
		reservationIndex,
	})

	return &MongoGuestRepository{
		collection: collection,
	}
}

// Create inserts a new guest
func (r *MongoGuestRepository) Create(ctx context.Context, guest *entity.Guest) error {
	now := time.Now()
	if guest.ID == "" {
		guest.ID = primitive.NewObjectID().Hex()
	}
	guest.CreatedAt = now
	guest.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, guest)
	return err
}

// ExistsByDocumentNumber reports whether any guest holds the document number,
// independent of document type
func (r *MongoGuestRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"documentNumber": documentNumber})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByReservation returns all guests registered on a reservation
func (r *MongoGuestRepository) FindByReservation(ctx context.Context, reservationID string) ([]entity.Guest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"reservationId": reservationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var guests []entity.Guest
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, err
	}

	return guests, nil
}

// DeleteByReservation removes all guests of a reservation
func (r *MongoGuestRepository) DeleteByReservation(ctx context.Context, reservationID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"reservationId": reservationID})
	return err
}
