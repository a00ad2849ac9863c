package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/example/linguabot/internal/database"
	"github.com/example/linguabot/internal/excel"
	"github.com/example/linguabot/internal/progress"
	"github.com/example/linguabot/internal/quiz"
	"github.com/example/linguabot/internal/review"
	"github.com/example/linguabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Commands:
/modules - list modules with progress
/study <module> - set your current module
/review - words due for review
/flashcards [module] - start a flashcard session
/flip - show the answer side
/learned - mark the current card as learned
/again - keep the current card in rotation
/quiz <module> - generate and start a quiz
/restart - restart the current quiz
/stats - your overall progress
/import <file> - import vocabulary from xlsx or csv`

const finishedQuizHint = "That quiz is finished. Send /restart to try again or /quiz <module id> for a new one."

// awaitingQuizAnswer reports whether plain text should be scored against the
// chat's quiz session. A finished attempt waits for /restart or /quiz.
func awaitingQuizAnswer(st *quizState) bool {
	return st != nil && st.session.Question() != nil
}

// handleMessage routes an incoming message to a command handler or, for
// plain text, to the active quiz session
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	if message.IsCommand() {
		return b.handleCommand(message)
	}
	if st, ok := b.quizzes[message.Chat.ID]; ok {
		if awaitingQuizAnswer(st) {
			return b.handleQuizAnswer(message.Chat.ID, strings.TrimSpace(message.Text))
		}
		return b.send(message.Chat.ID, finishedQuizHint)
	}
	return b.send(message.Chat.ID, "Send /help to see what I can do.")
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return b.send(chatID, "Welcome! I track your vocabulary progress and build practice quizzes.\n\n"+helpText)
	case "help":
		return b.send(chatID, helpText)
	case "modules":
		return b.handleModules(chatID)
	case "study":
		return b.handleStudy(chatID, args)
	case "review":
		return b.handleReview(chatID)
	case "flashcards":
		return b.handleFlashcards(chatID, args)
	case "flip":
		return b.handleFlip(chatID)
	case "learned":
		return b.handleCardResult(chatID, true)
	case "again":
		return b.handleCardResult(chatID, false)
	case "quiz":
		return b.handleQuiz(chatID, args)
	case "restart":
		return b.handleRestart(chatID)
	case "stats":
		return b.handleStats(chatID)
	case "import":
		return b.handleImport(chatID, args)
	default:
		return b.send(chatID, "Unknown command. Send /help for the list.")
	}
}

func (b *Bot) handleModules(chatID int64) error {
	modules, err := b.moduleRepo.GetAll()
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		return b.send(chatID, "No modules yet. Use /import to load vocabulary.")
	}

	var sb strings.Builder
	sb.WriteString("Your modules:\n")
	for _, m := range modules {
		mark := " "
		if m.Completed {
			mark = "✓"
		}
		fmt.Fprintf(&sb, "%s %d. %s (%s) — %d%% of %d words\n", mark, m.ID, m.Title, m.Level, m.Progress, m.WordCount)
	}
	return b.send(chatID, sb.String())
}

func (b *Bot) handleStudy(chatID int64, args string) error {
	moduleID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return b.send(chatID, "Usage: /study <module id>")
	}

	module, err := b.moduleRepo.GetByID(moduleID)
	if errors.Is(err, database.ErrNotFound) {
		return b.send(chatID, "Module not found. Send /modules for the list.")
	}
	if err != nil {
		return err
	}

	userProgress, err := b.progressRepo.Get()
	if err != nil {
		return err
	}
	userProgress.CurrentModule = &module.ID
	if err := b.progressRepo.Update(userProgress); err != nil {
		return err
	}
	return b.send(chatID, fmt.Sprintf("Current module set to %q.", module.Title))
}

func (b *Bot) handleReview(chatID int64) error {
	items, err := b.vocabRepo.GetAll()
	if err != nil {
		return err
	}

	queue := review.DueForReview(items, b.config.ReviewLimit)
	if len(queue) == 0 {
		return b.send(chatID, "Nothing to review yet. Learn some words first!")
	}

	var sb strings.Builder
	sb.WriteString("Words to review:\n")
	for i, item := range queue {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, item.SourceText, item.TargetText)
	}
	return b.send(chatID, sb.String())
}

func (b *Bot) handleFlashcards(chatID int64, args string) error {
	var err error
	var items []models.VocabularyItem
	if args == "" {
		items, err = b.vocabRepo.GetAll()
	} else {
		var moduleID int64
		moduleID, err = strconv.ParseInt(args, 10, 64)
		if err != nil {
			return b.send(chatID, "Usage: /flashcards [module id]")
		}
		items, err = b.vocabRepo.GetByModule(moduleID)
	}
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	deck := review.FlashcardDeck(items, time.Now(), rnd)
	if len(deck) == 0 {
		return b.send(chatID, "No cards are due right now.")
	}

	b.flashcards[chatID] = &flashcardState{deck: deck}
	return b.sendCurrentCard(chatID)
}

func (b *Bot) sendCurrentCard(chatID int64) error {
	fc, ok := b.flashcards[chatID]
	if !ok {
		return b.send(chatID, "No flashcard session. Start one with /flashcards.")
	}

	card := fc.deck[fc.index]
	return b.send(chatID, fmt.Sprintf("Card %d/%d:\n\n%s\n\nSend /flip to see the answer.", fc.index+1, len(fc.deck), card.SourceText))
}

func (b *Bot) handleFlip(chatID int64) error {
	fc, ok := b.flashcards[chatID]
	if !ok {
		return b.send(chatID, "No flashcard session. Start one with /flashcards.")
	}

	fc.revealed = true
	card := fc.deck[fc.index]
	text := fmt.Sprintf("%s = %s", card.SourceText, card.TargetText)
	if card.Examples != "" {
		text += "\n\n" + card.Examples
	}
	text += "\n\nSend /learned or /again."
	return b.send(chatID, text)
}

// handleCardResult records the review outcome for the current card and moves
// on: the item is stamped as reviewed, module progress and user totals are
// recomputed from a fresh snapshot, and the study streak advances.
func (b *Bot) handleCardResult(chatID int64, learned bool) error {
	fc, ok := b.flashcards[chatID]
	if !ok {
		return b.send(chatID, "No flashcard session. Start one with /flashcards.")
	}
	if !fc.revealed {
		return b.send(chatID, "Flip the card first with /flip.")
	}

	card := fc.deck[fc.index]
	now := time.Now()

	var next *time.Time
	if learned {
		t := now.AddDate(0, 0, b.config.ReviewIntervalDays)
		next = &t
	}

	if err := b.vocabRepo.MarkReviewed(card.ID, learned, now, next); err != nil {
		return err
	}
	if err := b.refreshDerived(card.ModuleID); err != nil {
		return err
	}

	fc.index++
	fc.revealed = false
	if fc.index >= len(fc.deck) {
		delete(b.flashcards, chatID)
		if err := b.recordStudy(now, b.config.SessionMinutes); err != nil {
			return err
		}
		return b.send(chatID, "Deck finished, nice work! Send /stats to see your progress.")
	}
	return b.sendCurrentCard(chatID)
}

func (b *Bot) handleQuiz(chatID int64, args string) error {
	moduleID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return b.send(chatID, "Usage: /quiz <module id>")
	}

	if _, err := b.moduleRepo.GetByID(moduleID); errors.Is(err, database.ErrNotFound) {
		return b.send(chatID, "Module not found. Send /modules for the list.")
	} else if err != nil {
		return err
	}

	// An interrupted attempt picks up from its stored answers instead of
	// regenerating the question set
	stored, err := b.quizRepo.GetByModule(moduleID)
	if err != nil {
		return err
	}
	if len(stored) > 0 {
		if resumed := quiz.ResumeSession(stored); !resumed.Completed && resumed.Current > 0 {
			b.quizzes[chatID] = &quizState{moduleID: moduleID, session: resumed}
			if err := b.send(chatID, fmt.Sprintf("Resuming your quiz at question %d/%d.", resumed.Current+1, len(stored))); err != nil {
				return err
			}
			return b.sendCurrentQuestion(chatID)
		}
	}

	pool, err := b.vocabRepo.GetByModule(moduleID)
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	questions, err := quiz.Generate(moduleID, pool, rnd)
	if errors.Is(err, quiz.ErrInsufficientData) {
		return b.send(chatID, "This module needs at least 4 words before a quiz can be generated.")
	}
	if err != nil {
		return err
	}

	// Regeneration fully replaces any previously stored questions
	if err := b.quizRepo.ReplaceForModule(moduleID, questions); err != nil {
		return err
	}

	b.quizzes[chatID] = &quizState{moduleID: moduleID, session: quiz.NewSession(questions)}
	return b.sendCurrentQuestion(chatID)
}

func (b *Bot) sendCurrentQuestion(chatID int64) error {
	st := b.quizzes[chatID]
	q := st.session.Question()
	if q == nil {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question %d/%d:\n%s\n", st.session.Current+1, len(st.session.Questions), q.Prompt)
	if q.Type == models.MultipleChoice {
		for i, option := range q.Options {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, option)
		}
		sb.WriteString("\nReply with the number or the word.")
	} else {
		sb.WriteString("\nType your answer.")
	}
	return b.send(chatID, sb.String())
}

// handleQuizAnswer scores an answer, persists the partial result right away,
// and either sends the next question or finishes the session
func (b *Bot) handleQuizAnswer(chatID int64, text string) error {
	st := b.quizzes[chatID]
	q := st.session.Question()
	if q == nil {
		return b.send(chatID, finishedQuizHint)
	}

	answer := text
	if q.Type == models.MultipleChoice {
		if idx, err := strconv.Atoi(text); err == nil && idx >= 1 && idx <= len(q.Options) {
			answer = q.Options[idx-1]
		}
	}

	correct, err := st.session.Answer(answer)
	if errors.Is(err, quiz.ErrAlreadyAnswered) || errors.Is(err, quiz.ErrSessionCompleted) {
		return b.send(chatID, "That question is already answered.")
	}
	if err != nil {
		return err
	}

	// Crash safety: the outcome is stored before the reply goes out, so an
	// interrupted session keeps its partial score
	if err := b.quizRepo.RecordAnswer(q.ID, correct); err != nil {
		return err
	}

	reply := "Correct! +10 points"
	if !correct {
		reply = fmt.Sprintf("Not quite. The answer is: %s", q.CorrectAnswer)
	}
	if err := b.send(chatID, reply); err != nil {
		return err
	}

	if st.session.Advance() {
		return b.finishQuiz(chatID, st)
	}
	return b.sendCurrentQuestion(chatID)
}

// finishQuiz reports the result and, on a passing score, marks the owning
// module completed. This is the only place a quiz outcome feeds back into
// module state.
func (b *Bot) finishQuiz(chatID int64, st *quizState) error {
	s := st.session
	now := time.Now()

	text := fmt.Sprintf("Quiz finished! Score: %d (%d correct, %d wrong, %d%%)",
		s.Score, s.CorrectCount, s.IncorrectCount, s.Percentage())

	if s.Passed() {
		items, err := b.vocabRepo.GetByModule(st.moduleID)
		if err != nil {
			return err
		}
		if err := b.moduleRepo.UpdateDerived(st.moduleID, 100, true, len(items)); err != nil {
			return err
		}
		text += "\nModule completed 🎉"
	} else {
		text += fmt.Sprintf("\nYou need %d%% to complete the module. Send /restart to try again.", quiz.PassPercent)
	}

	if err := b.recordStudy(now, b.config.SessionMinutes); err != nil {
		return err
	}

	if s.Passed() {
		delete(b.quizzes, chatID)
	}
	return b.send(chatID, text)
}

// handleRestart replays the same question set from scratch
func (b *Bot) handleRestart(chatID int64) error {
	st, ok := b.quizzes[chatID]
	if !ok {
		return b.send(chatID, "No quiz in progress. Start one with /quiz <module id>.")
	}

	st.session.Restart()
	if err := b.quizRepo.ResetCompletion(st.moduleID); err != nil {
		return err
	}
	return b.sendCurrentQuestion(chatID)
}

func (b *Bot) handleStats(chatID int64) error {
	userProgress, err := b.progressRepo.Get()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("Your progress:\n")
	fmt.Fprintf(&sb, "Words learned: %d\n", userProgress.TotalLearned)
	fmt.Fprintf(&sb, "Reviews done: %d\n", userProgress.TotalReviewed)
	fmt.Fprintf(&sb, "Study streak: %d days\n", userProgress.StreakDays)
	fmt.Fprintf(&sb, "Study time: %d minutes\n", userProgress.TotalStudyTime)
	if userProgress.LastStudyDate != nil {
		fmt.Fprintf(&sb, "Last studied: %s\n", userProgress.LastStudyDate.Format("2006-01-02"))
	}
	return b.send(chatID, sb.String())
}

// handleImport loads vocabulary from a file on disk, optionally decorates new
// items with generated example sentences, and reconciles derived progress
func (b *Bot) handleImport(chatID int64, args string) error {
	if args == "" {
		return b.send(chatID, "Usage: /import <path to .xlsx or .csv>")
	}

	config := excel.DefaultImportConfig()
	config.FilePath = args

	result, err := excel.ImportVocabulary(config)
	if err != nil {
		return b.send(chatID, fmt.Sprintf("Import failed: %v", err))
	}

	if b.openAiEnabled && result.Created > 0 {
		b.fillMissingExamples()
	}

	if err := b.reconcileAll(); err != nil {
		return err
	}

	text := fmt.Sprintf("Import done: %d rows, %d created, %d updated, %d new modules",
		result.TotalProcessed, result.Created, result.Updated, result.ModulesCreated)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf(", %d errors", len(result.Errors))
	}
	return b.send(chatID, text)
}

// fillMissingExamples asks the AI collaborator for example sentences for
// items that came in without one. Failures are silently skipped; examples
// are decoration, not engine state.
func (b *Bot) fillMissingExamples() {
	items, err := b.vocabRepo.GetAll()
	if err != nil {
		return
	}
	for i := range items {
		if items[i].Examples != "" {
			continue
		}
		example, err := b.chatGPT.GenerateExample(&items[i])
		if err != nil {
			continue
		}
		items[i].Examples = example
		if err := b.vocabRepo.Update(&items[i]); err != nil {
			return
		}
	}
}

// reconcileAll recomputes derived fields for every module after a batch
// mutation such as an import
func (b *Bot) reconcileAll() error {
	modules, err := b.moduleRepo.GetAll()
	if err != nil {
		return err
	}
	items, err := b.vocabRepo.GetAll()
	if err != nil {
		return err
	}

	updates, learned, reviewed := progress.Reconcile(modules, items)
	for _, u := range updates {
		if err := b.moduleRepo.UpdateDerived(u.ModuleID, u.Progress, u.Completed, u.WordCount); err != nil {
			return err
		}
	}

	userProgress, err := b.progressRepo.Get()
	if err != nil {
		return err
	}
	userProgress.TotalLearned = learned
	userProgress.TotalReviewed = reviewed
	return b.progressRepo.Update(userProgress)
}
