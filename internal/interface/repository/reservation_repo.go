package repository

import (
	"context"
	"errors"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepository implements ReservationRepository
type MongoReservationRepository struct {
	collection *mongo.Collection
}

// NewMongoReservationRepository creates a new reservation repository
func NewMongoReservationRepository(db *mongo.Database) repository.ReservationRepository {
	collection := db.Collection("reservations")

	ctx := context.Background()

	// Compound index backing conflict and occupancy queries
	roomStatusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "roomId", Value: 1},
			{Key: "status", Value: 1},
		},
	}

	checkInIndex := mongo.IndexModel{
		Keys: bson.M{"checkInDate": 1},
	}

	userIndex := mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		roomStatusIndex,
		checkInIndex,
		userIndex,
	})

	return &MongoReservationRepository{
		collection: collection,
	}
}

// Create inserts a new reservation
func (r *MongoReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	now := time.Now()
	if reservation.ID == "" {
		reservation.ID = primitive.NewObjectID().Hex()
	}
	if reservation.Status == "" {
		reservation.Status = entity.StatusPending
	}
	if reservation.ServiceIDs == nil {
		reservation.ServiceIDs = []string{}
	}
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, reservation)
	return err
}

// FindByID finds a reservation by ID, returning (nil, nil) when absent
func (r *MongoReservationRepository) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reservation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CountConflicting counts confirmed or pending reservations overlapping the
// candidate half-open interval. The three clauses cover: candidate start
// inside an existing stay, candidate end inside an existing stay, and an
// existing stay fully contained by the candidate. Touching endpoints
// (existing checkout == candidate checkin) do not match any clause.
func (r *MongoReservationRepository) CountConflicting(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int64, error) {
	filter := bson.M{
		"roomId": roomID,
		"status": bson.M{"$in": []string{entity.StatusConfirmed, entity.StatusPending}},
		"$or": []bson.M{
			{
				"checkInDate":  bson.M{"$lte": checkIn},
				"checkOutDate": bson.M{"$gt": checkIn},
			},
			{
				"checkInDate":  bson.M{"$lt": checkOut},
				"checkOutDate": bson.M{"$gte": checkOut},
			},
			{
				"checkInDate":  bson.M{"$gte": checkIn},
				"checkOutDate": bson.M{"$lte": checkOut},
			},
		},
	}

	return r.collection.CountDocuments(ctx, filter)
}

// FindStaysByRoom returns the stay intervals for a room restricted to the
// given statuses
func (r *MongoReservationRepository) FindStaysByRoom(ctx context.Context, roomID string, statuses []string) ([]entity.StayInterval, error) {
	filter := bson.M{
		"roomId": roomID,
		"status": bson.M{"$in": statuses},
	}

	projection := bson.M{
		"checkInDate":  1,
		"checkOutDate": 1,
		"status":       1,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stays []entity.StayInterval
	if err := cursor.All(ctx, &stays); err != nil {
		return nil, err
	}

	return stays, nil
}

// UpdateStatus updates the status of a reservation
func (r *MongoReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
	)
	return err
}

// Delete removes a reservation
func (r *MongoReservationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
