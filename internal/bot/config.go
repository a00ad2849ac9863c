package bot

import "github.com/example/linguabot/internal/review"

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of items shown by the review widget
	ReviewLimit int
	// Days until a learned card comes back for review
	ReviewIntervalDays int
	// Minutes of study time credited per finished session
	SessionMinutes int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ReviewLimit:        review.DefaultLimit,
		ReviewIntervalDays: 3,
		SessionMinutes:     5,
	}
}
