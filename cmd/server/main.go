package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/infrastructure/config"
	"reservation-service/internal/infrastructure/oauth"
	"reservation-service/internal/infrastructure/persistence"
	"reservation-service/internal/interface/mailer"
	storeRepo "reservation-service/internal/interface/repository"
	"reservation-service/internal/usecase"
	"reservation-service/pkg/logger"
	"reservation-service/pkg/metrics"

	"reservation-service/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Reservation Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Reference tables (room categories, document types) live in PostgreSQL
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up Redis for the availability cache and counters
	log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
	redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}

	// Set up repositories
	reservationRepo := storeRepo.NewMongoReservationRepository(db)
	guestRepo := storeRepo.NewMongoGuestRepository(db)
	roomRepo := storeRepo.NewMongoRoomRepository(db)
	categoryRepo := storeRepo.NewGormRoomCategoryRepository(gormDB)
	documentTypeRepo := storeRepo.NewGormDocumentTypeRepository(gormDB)
	availabilityCache := storeRepo.NewRedisAvailabilityCache(redisClient)

	// Set up confirmation mailer when Gmail credentials are configured
	var notifier repository.Notifier
	if cfg.GmailClientID != "" && cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		gmailMailer, err := mailer.NewGmailMailer(ctx, gmailOAuth.GetTokenSource(ctx), cfg.GmailSender, log)
		if err != nil {
			log.Fatal("Failed to create Gmail mailer", "error", err)
		}
		notifier = gmailMailer
	} else {
		log.Warn("Gmail credentials not configured, confirmation emails disabled")
	}

	// Set up usecases
	m := metrics.NewMetrics("hotel")
	detector := usecase.NewConflictDetector(reservationRepo, guestRepo)
	availability := usecase.NewAvailabilityService(reservationRepo, roomRepo, availabilityCache, log, cfg.OccupiedDatesTTL, cfg.AvailableRoomsTTL)
	orchestrator := usecase.NewBookingOrchestrator(
		reservationRepo,
		guestRepo,
		roomRepo,
		categoryRepo,
		documentTypeRepo,
		availabilityCache,
		notifier,
		detector,
		m,
		log,
	)
	batchProcessor := usecase.NewBatchProcessor(orchestrator, cfg.BatchSize, m, log)

	// Log the counter snapshot periodically
	go func() {
		snapshotTicker := time.NewTicker(time.Minute)
		defer snapshotTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Snapshot reporter stopped")
				return
			case <-snapshotTicker.C:
				snapshot := availability.MetricsSnapshot(ctx)
				log.Info("Hotel metrics snapshot",
					"date", snapshot.Date,
					"reservations", snapshot.Reservations,
					"revenue", snapshot.Revenue,
					"occupiedRooms", snapshot.OccupiedRooms,
					"activeUsers", snapshot.ActiveUsers)
			}
		}
	}()

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("/hotel/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, availability.MetricsSnapshot(r.Context()))
	})
	mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var input entity.ReservationInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		reservation, err := orchestrator.Create(r.Context(), &input)
		if err != nil {
			writeJSON(w, bookingErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, reservation)
	})
	mux.HandleFunc("/reservations/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var inputs []entity.ReservationInput
		if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, batchProcessor.CreateMany(r.Context(), inputs))
	})
	mux.HandleFunc("/rooms/occupied-dates", func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("roomId")
		if roomID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "roomId is required"})
			return
		}
		dates, err := availability.GetOccupiedDates(r.Context(), roomID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, dates)
	})
	mux.HandleFunc("/rooms/available", func(w http.ResponseWriter, r *http.Request) {
		rooms, err := availability.GetAvailableRooms(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if err := redisClient.Close(); err != nil {
		log.Error("Redis close error", "error", err)
	}

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Reservation Service stopped")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// bookingErrorStatus maps booking rejections to HTTP status codes
func bookingErrorStatus(err error) int {
	var validationErr *usecase.ValidationError
	var duplicateErr *usecase.DuplicateDocumentError
	var conflictErr *usecase.DateConflictError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &duplicateErr), errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
