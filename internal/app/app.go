package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/mindlist/internal/cloud"
	"github.com/dori/mindlist/internal/config"
	"github.com/dori/mindlist/internal/localstore"
	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/notify"
	"github.com/dori/mindlist/internal/persist"
	"github.com/dori/mindlist/internal/store"
	"github.com/dori/mindlist/internal/trash"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	DB       *localstore.DB
	Store    *store.Store
	Bridge   *persist.Bridge
	Drive    cloud.Provider
	Notifier *notify.Notifier

	lockFile    *flock.Flock
	sweepCancel context.CancelFunc
}

// New creates a new application instance: acquires the single-instance lock,
// opens the document store, rehydrates state, and starts the trash sweeper.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    newLogger(cfg.LogLevel),
	}

	// Acquire lock to ensure single instance
	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	db, err := localstore.Open(cfg.DBPath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	a.DB = db

	a.Drive = cloud.NewFileDrive(cfg.Sync.DriveDir)
	a.Bridge = persist.NewBridge(db, persist.Options{
		Drive:       a.Drive,
		SyncEnabled: cfg.Sync.Enabled,
		Debounce:    cfg.Debounce(),
		Logger:      a.Log,
	})

	initial := a.Bridge.Rehydrate()
	a.Store = store.New(initial)
	a.Bridge.Attach(a.Store)

	// The CLI has no guided tour, so first launch counts as onboarded.
	if _, ok, err := db.Get(localstore.KeyOnboardingCompleted); err == nil && !ok {
		if err := db.Put(localstore.KeyOnboardingCompleted, "true"); err != nil {
			a.Log.WithError(err).Warn("failed to record onboarding flag")
		}
	}

	a.Notifier = notify.NewNotifier(initial.Notifications)
	a.Store.Subscribe(func(s model.AppState) {
		a.Notifier.SetSettings(s.Notifications)
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.sweepCancel = cancel
	go trash.NewSweeper(a.Store, cfg.SweepInterval(), a.Log).Run(ctx)

	return a, nil
}

// RemindDueTasks sends a reminder for every incomplete task due inside the
// window. Returns how many reminders were sent.
func (a *App) RemindDueTasks(window time.Duration) int {
	sent := 0
	for _, t := range a.Store.State().Tasks {
		if !t.DueWithin(window) {
			continue
		}
		if err := a.Notifier.SendDueReminder(t); err != nil {
			a.Log.WithError(err).Debug("reminder delivery failed")
			continue
		}
		sent++
	}
	return sent
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "mindlist.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of mindlist is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.sweepCancel != nil {
		a.sweepCancel()
	}
	if a.Bridge != nil {
		a.Bridge.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close document store: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// newLogger builds the structured JSON logger shared by all components.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
