package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/linguabot/internal/database"
	"github.com/example/linguabot/internal/progress"
	"github.com/example/linguabot/internal/review"
	"github.com/go-co-op/gocron"
)

// Default notification window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReviewReminder(count int) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check whether the learner has reviews waiting
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder)

	// Nightly reconciliation of derived progress fields
	s.scheduler.Every(1).Day().At("03:00").Do(s.reconcileProgress)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminder sends a reminder when review items are due and the
// current hour falls inside the notification window
func (s *Scheduler) checkAndSendReminder() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	vocabRepo := database.NewVocabularyRepository()
	items, err := vocabRepo.GetAll()
	if err != nil {
		log.Printf("Error loading vocabulary for reminders: %v", err)
		return
	}

	due := review.DueForReview(items, 0)
	if len(due) == 0 {
		return
	}

	if err := s.notifier.SendReviewReminder(len(due)); err != nil {
		log.Printf("Error sending review reminder: %v", err)
	}
}

// reconcileProgress recomputes derived module progress and user totals from
// the vocabulary snapshot and persists whatever drifted
func (s *Scheduler) reconcileProgress() {
	moduleRepo := database.NewModuleRepository()
	vocabRepo := database.NewVocabularyRepository()
	progressRepo := database.NewUserProgressRepository()

	modules, err := moduleRepo.GetAll()
	if err != nil {
		log.Printf("Error loading modules for reconciliation: %v", err)
		return
	}

	items, err := vocabRepo.GetAll()
	if err != nil {
		log.Printf("Error loading vocabulary for reconciliation: %v", err)
		return
	}

	updates, learned, reviewed := progress.Reconcile(modules, items)
	for _, u := range updates {
		if err := moduleRepo.UpdateDerived(u.ModuleID, u.Progress, u.Completed, u.WordCount); err != nil {
			log.Printf("Error updating module %d progress: %v", u.ModuleID, err)
		}
	}

	userProgress, err := progressRepo.Get()
	if err != nil {
		log.Printf("Error loading user progress: %v", err)
		return
	}

	if userProgress.TotalLearned != learned || userProgress.TotalReviewed != reviewed {
		userProgress.TotalLearned = learned
		userProgress.TotalReviewed = reviewed
		if err := progressRepo.Update(userProgress); err != nil {
			log.Printf("Error updating user progress: %v", err)
		}
	}

	if len(updates) > 0 {
		log.Printf("Reconciled progress for %d modules", len(updates))
	}
}

// RunManualCheck forces a reminder check regardless of schedule
func (s *Scheduler) RunManualCheck() error {
	vocabRepo := database.NewVocabularyRepository()
	items, err := vocabRepo.GetAll()
	if err != nil {
		return err
	}

	due := review.DueForReview(items, 0)
	if len(due) > 0 {
		return s.notifier.SendReviewReminder(len(due))
	}
	return nil
}

func hourFromEnv(name string, fallback int) int {
	if value := os.Getenv(name); value != "" {
		if h, err := strconv.Atoi(value); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
