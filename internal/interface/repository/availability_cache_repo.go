package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"github.com/go-redis/redis/v8"
)

const (
	occupiedRoomsKey  = "rooms:occupied"
	activeUsersKey    = "users:active"
	availableRoomsKey = "available_rooms"

	// Daily counters die 30 days after their last write
	dailyCounterTTL = 30 * 24 * time.Hour
)

func occupiedDatesKey(roomID string) string {
	return "occupied_dates:" + roomID
}

func dailyReservationsKey(key string) string {
	return "reservations:" + key
}

func dailyRevenueKey(date string) string {
	return "revenue:" + date
}

// RedisAvailabilityCache implements AvailabilityCache on Redis
type RedisAvailabilityCache struct {
	client *redis.Client
}

// NewRedisAvailabilityCache creates a new Redis-backed availability cache
func NewRedisAvailabilityCache(client *redis.Client) repository.AvailabilityCache {
	return &RedisAvailabilityCache{
		client: client,
	}
}

// GetOccupiedDates returns the cached occupied dates for a room, or
// (nil, nil) on a miss
func (c *RedisAvailabilityCache) GetOccupiedDates(ctx context.Context, roomID string) ([]string, error) {
	raw, err := c.client.Get(ctx, occupiedDatesKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dates := []string{}
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, fmt.Errorf("decode occupied dates for room %s: %w", roomID, err)
	}
	return dates, nil
}

// SetOccupiedDates caches the occupied dates for a room
func (c *RedisAvailabilityCache) SetOccupiedDates(ctx context.Context, roomID string, dates []string, ttl time.Duration) error {
	if dates == nil {
		dates = []string{}
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, occupiedDatesKey(roomID), raw, ttl).Err()
}

// InvalidateRoom deletes the cached occupied dates for a room
func (c *RedisAvailabilityCache) InvalidateRoom(ctx context.Context, roomID string) error {
	return c.client.Del(ctx, occupiedDatesKey(roomID)).Err()
}

// GetAvailableRooms returns the cached available-rooms listing, or (nil, nil)
// on a miss
func (c *RedisAvailabilityCache) GetAvailableRooms(ctx context.Context) ([]entity.Room, error) {
	raw, err := c.client.Get(ctx, availableRoomsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rooms := []entity.Room{}
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		return nil, fmt.Errorf("decode available rooms: %w", err)
	}
	return rooms, nil
}

// SetAvailableRooms caches the available-rooms listing
func (c *RedisAvailabilityCache) SetAvailableRooms(ctx context.Context, rooms []entity.Room, ttl time.Duration) error {
	if rooms == nil {
		rooms = []entity.Room{}
	}
	raw, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availableRoomsKey, raw, ttl).Err()
}

// InvalidateAvailableRooms deletes the cached available-rooms listing
func (c *RedisAvailabilityCache) InvalidateAvailableRooms(ctx context.Context) error {
	return c.client.Del(ctx, availableRoomsKey).Err()
}

// IncrementDailyReservations atomically increments the reservation counter
// for the given key (a date, or date:category:code)
func (c *RedisAvailabilityCache) IncrementDailyReservations(ctx context.Context, key string) (int64, error) {
	fullKey := dailyReservationsKey(key)
	count, err := c.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, err
	}
	c.client.Expire(ctx, fullKey, dailyCounterTTL)
	return count, nil
}

// GetDailyReservations reads the reservation counter for a date
func (c *RedisAvailabilityCache) GetDailyReservations(ctx context.Context, date string) (int64, error) {
	return c.getInt(ctx, dailyReservationsKey(date))
}

// AddDailyRevenue atomically adds to the revenue counter for a date
func (c *RedisAvailabilityCache) AddDailyRevenue(ctx context.Context, date string, amount float64) (float64, error) {
	fullKey := dailyRevenueKey(date)
	total, err := c.client.IncrByFloat(ctx, fullKey, amount).Result()
	if err != nil {
		return 0, err
	}
	c.client.Expire(ctx, fullKey, dailyCounterTTL)
	return total, nil
}

// GetDailyRevenue reads the revenue counter for a date
func (c *RedisAvailabilityCache) GetDailyRevenue(ctx context.Context, date string) (float64, error) {
	raw, err := c.client.Get(ctx, dailyRevenueKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(raw, 64)
}

// IncrementOccupiedRooms atomically increments the occupied-room counter
func (c *RedisAvailabilityCache) IncrementOccupiedRooms(ctx context.Context) (int64, error) {
	return c.client.Incr(ctx, occupiedRoomsKey).Result()
}

// DecrementOccupiedRooms atomically decrements the occupied-room counter,
// clamping at zero
func (c *RedisAvailabilityCache) DecrementOccupiedRooms(ctx context.Context) (int64, error) {
	return c.decrementClamped(ctx, occupiedRoomsKey)
}

// GetOccupiedRoomsCount reads the occupied-room counter
func (c *RedisAvailabilityCache) GetOccupiedRoomsCount(ctx context.Context) (int64, error) {
	return c.getInt(ctx, occupiedRoomsKey)
}

// IncrementActiveUsers atomically increments the active-user counter
func (c *RedisAvailabilityCache) IncrementActiveUsers(ctx context.Context) (int64, error) {
	return c.client.Incr(ctx, activeUsersKey).Result()
}

// DecrementActiveUsers atomically decrements the active-user counter,
// clamping at zero
func (c *RedisAvailabilityCache) DecrementActiveUsers(ctx context.Context) (int64, error) {
	return c.decrementClamped(ctx, activeUsersKey)
}

// GetActiveUsersCount reads the active-user counter
func (c *RedisAvailabilityCache) GetActiveUsersCount(ctx context.Context) (int64, error) {
	return c.getInt(ctx, activeUsersKey)
}

func (c *RedisAvailabilityCache) decrementClamped(ctx context.Context, key string) (int64, error) {
	count, err := c.client.Decr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		if err := c.client.Set(ctx, key, "0", 0).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return count, nil
}

func (c *RedisAvailabilityCache) getInt(ctx context.Context, key string) (int64, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
