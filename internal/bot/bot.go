package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/linguabot/internal/ai"
	"github.com/example/linguabot/internal/database"
	"github.com/example/linguabot/internal/progress"
	"github.com/example/linguabot/internal/quiz"
	"github.com/example/linguabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// quizState tracks an active quiz attempt for one chat
type quizState struct {
	moduleID int64
	session  *quiz.Session
}

// flashcardState tracks an active flashcard session for one chat
type flashcardState struct {
	deck     []models.VocabularyItem
	index    int
	revealed bool
}

// Bot represents the Telegram application surface. It is the only place that
// turns engine results into repository writes; the engine packages themselves
// stay read-only over snapshots.
type Bot struct {
	api    *tgbotapi.BotAPI
	config *BotConfig

	moduleRepo   *database.ModuleRepository
	vocabRepo    *database.VocabularyRepository
	progressRepo *database.UserProgressRepository
	quizRepo     *database.QuizRepository

	chatGPT       *ai.ChatGPT
	openAiEnabled bool

	quizzes    map[int64]*quizState
	flashcards map[int64]*flashcardState

	// Chat that receives scheduled review reminders
	reminderChatID int64
}

// New creates a new bot instance
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	openAiEnabled := os.Getenv("OPENAI_API_KEY") != ""
	var chatGPT *ai.ChatGPT
	if openAiEnabled {
		chatGPT, err = ai.New()
		if err != nil {
			log.Printf("OpenAI disabled: %v", err)
			openAiEnabled = false
		}
	}

	var reminderChatID int64
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			reminderChatID = id
		}
	}

	return &Bot{
		api:            api,
		config:         DefaultConfig(),
		moduleRepo:     database.NewModuleRepository(),
		vocabRepo:      database.NewVocabularyRepository(),
		progressRepo:   database.NewUserProgressRepository(),
		quizRepo:       database.NewQuizRepository(),
		chatGPT:        chatGPT,
		openAiEnabled:  openAiEnabled,
		quizzes:        make(map[int64]*quizState),
		flashcards:     make(map[int64]*flashcardState),
		reminderChatID: reminderChatID,
	}, nil
}

// Start begins processing updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if err := b.handleMessage(update.Message); err != nil {
				log.Printf("Error handling message: %v", err)
			}
		}
	}
}

// Stop shuts down the update channel
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// SendReviewReminder implements scheduler.Notifier
func (b *Bot) SendReviewReminder(count int) error {
	if b.reminderChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("You have %d words waiting for review. Send /review to see them.", count)
	return b.send(b.reminderChatID, text)
}

func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// refreshDerived re-reads the vocabulary snapshot and persists the derived
// fields for one module plus the user totals. All completion writes outside
// quiz gating flow through here.
func (b *Bot) refreshDerived(moduleID int64) error {
	items, err := b.vocabRepo.GetAll()
	if err != nil {
		return err
	}

	pct, completed := progress.ComputeModuleProgress(moduleID, items)

	wordCount := 0
	for _, item := range items {
		if item.ModuleID == moduleID {
			wordCount++
		}
	}

	if err := b.moduleRepo.UpdateDerived(moduleID, pct, completed, wordCount); err != nil {
		return err
	}

	learned, reviewed := progress.ComputeUserTotals(items)
	userProgress, err := b.progressRepo.Get()
	if err != nil {
		return err
	}
	userProgress.TotalLearned = learned
	userProgress.TotalReviewed = reviewed
	return b.progressRepo.Update(userProgress)
}

// recordStudy stamps today's study event, advancing the streak when the
// previous study day was yesterday, and credits session study time.
func (b *Bot) recordStudy(now time.Time, minutes int) error {
	userProgress, err := b.progressRepo.Get()
	if err != nil {
		return err
	}

	updated := progress.AdvanceStreak(*userProgress, now)
	updated.TotalStudyTime += minutes
	return b.progressRepo.Update(&updated)
}
