package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type ChatAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatAIRequest struct {
	Model       string          `json:"model"`
	Messages    []ChatAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type chatAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// CallChatAI sends the conversation to an OpenAI-compatible completions API
// and returns the assistant reply. Used by the support chat to answer common
// questions before a human takes over.
func CallChatAI(messages []ChatAIMessage, systemPrompt string) (string, error) {
	apiKey := os.Getenv("CHAT_AI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("CHAT_AI_API_KEY not set")
	}

	baseURL := os.Getenv("CHAT_AI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	model := os.Getenv("CHAT_AI_MODEL")
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}

	allMessages := []ChatAIMessage{}
	if systemPrompt != "" {
		allMessages = append(allMessages, ChatAIMessage{Role: "system", Content: systemPrompt})
	}
	allMessages = append(allMessages, messages...)

	jsonData, err := json.Marshal(chatAIRequest{
		Model:       model,
		Messages:    allMessages,
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat AI request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat AI returned status %d: %s", resp.StatusCode, string(body))
	}

	var out chatAIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat AI returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
