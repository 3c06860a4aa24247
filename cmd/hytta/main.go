package main

import (
	"hytta/internal/bookings/handler"
	"hytta/internal/bookings/store"
	"hytta/internal/bookings/validator"
	"hytta/internal/identity"
	"hytta/pkg/app"
	"hytta/pkg/config"
	apperrors "hytta/pkg/errors"
	"hytta/pkg/storage"
)

const ServiceName = "hytta"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Hytta booking service")

	fileStore, err := storage.NewFileStore(cfg.StateDir, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to open durable store", "error", err, "state_dir", cfg.StateDir)
	}

	owner, err := identity.Load(cfg.ProfilePath, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to load owner profile", "error", err, "profile_path", cfg.ProfilePath)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingStore := store.New(fileStore, bookingValidator, &owner, cfg.Log)

	// A malformed durable collection resets in-memory state to empty but
	// must not prevent startup; the corrupted value stays on disk.
	if _, err := bookingStore.Load(); err != nil {
		if apperrors.HasCode(err, apperrors.CodeIntegrity) {
			cfg.Log.Error("Starting with an empty collection after integrity failure", "error", err)
		} else {
			cfg.Log.Fatal("Failed to load booking collection", "error", err)
		}
	}

	cancelWatch := bookingStore.OnExternalChange(func() {
		cfg.Log.Info("Booking collection reconciled after external change",
			"count", len(bookingStore.Bookings()),
		)
	})

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewBookingHandler(bookingStore, &owner, cfg.Log),
		handler.NewHealthHandler(fileStore, cfg.Log),
	)
	serverApp.Run(func() {
		cancelWatch()
		if err := fileStore.Close(); err != nil {
			cfg.Log.Error("Failed to close durable store", "error", err)
		}
	})
}
