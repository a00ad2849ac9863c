package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/example/linguabot/pkg/models"
)

// ChatGPT represents a client for the OpenAI ChatGPT API. It supplies example
// sentences for imported vocabulary; the engine works fine without it.
type ChatGPT struct {
	apiKey      string
	apiURL      string
	maxTokens   int
	temperature float64
}

// New creates a new ChatGPT client
func New() (*ChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		maxTokens:   100,
		temperature: 0.7,
	}, nil
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateExample generates an example sentence for the given vocabulary item
func (c *ChatGPT) GenerateExample(item *models.VocabularyItem) (string, error) {
	prompt := fmt.Sprintf(
		"Generate one short, practical example sentence in Portuguese that naturally includes the word '%s' (which translates to '%s' in French). Return only the sentence.",
		item.SourceText, item.TargetText,
	)

	messages := []Message{
		{Role: "system", Content: "You are an assistant for Portuguese learners. You write short, natural example sentences for vocabulary words."},
		{Role: "user", Content: prompt},
	}

	request := ChatRequest{
		Model:       "gpt-3.5-turbo",
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	return c.complete(request)
}

// GenerateExampleWithFallback generates an example with fallback to a template
// sentence when the API is unreachable
func (c *ChatGPT) GenerateExampleWithFallback(item *models.VocabularyItem) string {
	example, err := c.GenerateExample(item)
	if err != nil {
		if item.Examples != "" {
			return item.Examples
		}
		return fmt.Sprintf("Exemplo com a palavra '%s'.", item.SourceText)
	}
	return example
}

// complete sends a chat completion request and returns the first choice
func (c *ChatGPT) complete(request ChatRequest) (string, error) {
	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
