package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/usecase"
	"reservation-service/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestCreateManyIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	require.NoError(t, e.reservations.Create(ctx, &entity.Reservation{
		ID:           "blocker",
		RoomID:       "room-2",
		CheckInDate:  day("2025-01-10"),
		CheckOutDate: day("2025-01-12"),
		Status:       entity.StatusConfirmed,
	}))

	inputs := []entity.ReservationInput{
		*validInput("room-1"),
		*validInput("room-2"),
		*validInput("room-3"),
	}

	processor := usecase.NewBatchProcessor(e.orchestrator, 5, newTestMetrics(), logger.NewLogger())
	summary := processor.CreateMany(ctx, inputs)

	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Successful)
	require.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)

	require.False(t, summary.Results[0].Failed())
	require.Equal(t, "room-1", summary.Results[0].Reservation.RoomID)

	// The rejected item carries its error and original input in place
	require.True(t, summary.Results[1].Failed())
	require.NotEmpty(t, summary.Results[1].Err)
	require.NotNil(t, summary.Results[1].Data)
	require.Equal(t, "room-2", summary.Results[1].Data.RoomID)
	require.Nil(t, summary.Results[1].Reservation)

	require.False(t, summary.Results[2].Failed())
	require.Equal(t, "room-3", summary.Results[2].Reservation.RoomID)

	// The blocker plus the two accepted items
	require.Equal(t, 3, e.reservations.count())
}

func TestCreateManyBoundsConcurrency(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.reservations.createDelay = 20 * time.Millisecond

	var inputs []entity.ReservationInput
	for i := 0; i < 12; i++ {
		inputs = append(inputs, *validInput(fmt.Sprintf("room-%d", i)))
	}

	processor := usecase.NewBatchProcessor(e.orchestrator, 5, newTestMetrics(), logger.NewLogger())
	summary := processor.CreateMany(ctx, inputs)

	require.Equal(t, 12, summary.Total)
	require.Equal(t, 12, summary.Successful)
	require.Zero(t, summary.Failed)
	require.Equal(t, 12, e.reservations.count())
	require.LessOrEqual(t, e.reservations.maxInflight, int32(5))

	// Results keep submission order across batch boundaries
	for i, result := range summary.Results {
		require.False(t, result.Failed())
		require.Equal(t, fmt.Sprintf("room-%d", i), result.Reservation.RoomID)
	}
}

func TestCreateManyEmptyInput(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	processor := usecase.NewBatchProcessor(e.orchestrator, 5, newTestMetrics(), logger.NewLogger())
	summary := processor.CreateMany(ctx, nil)

	require.Zero(t, summary.Total)
	require.Zero(t, summary.Successful)
	require.Zero(t, summary.Failed)
	require.Empty(t, summary.Results)
}

func TestNewBatchProcessorDefaultsBatchSize(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.reservations.createDelay = 10 * time.Millisecond

	var inputs []entity.ReservationInput
	for i := 0; i < 8; i++ {
		inputs = append(inputs, *validInput(fmt.Sprintf("room-%d", i)))
	}

	processor := usecase.NewBatchProcessor(e.orchestrator, 0, newTestMetrics(), logger.NewLogger())
	summary := processor.CreateMany(ctx, inputs)

	require.Equal(t, 8, summary.Successful)
	require.LessOrEqual(t, e.reservations.maxInflight, int32(usecase.DefaultBatchSize))
}
