package repository

import (
	"context"
	"errors"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRoomRepository implements RoomRepository
type MongoRoomRepository struct {
	collection *mongo.Collection
}

// NewMongoRoomRepository creates a new room repository
func NewMongoRoomRepository(db *mongo.Database) repository.RoomRepository {
	return &MongoRoomRepository{
		collection: db.Collection("rooms"),
	}
}

// FindByID finds a room by ID, returning (nil, nil) when absent
func (r *MongoRoomRepository) FindByID(ctx context.Context, id string) (*entity.Room, error) {
	var room entity.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindAvailable returns rooms that are available and not under maintenance
func (r *MongoRoomRepository) FindAvailable(ctx context.Context) ([]entity.Room, error) {
	filter := bson.M{
		"isAvailable":   true,
		"isMaintenance": false,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []entity.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}

	return rooms, nil
}
