package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mindwell-api/internal/models"
	"net/http"
	"os"
	"time"
)

// AIService runs the hosted generation flows behind the gated
// features. Prompt templates live on the generation service; this
// client only names the flow and ships the user's material.
type AIService interface {
	ConcernChat(ctx context.Context, concern string, history []ChatMessage) (string, error)
	AnalyzeJournal(ctx context.Context, entries []models.JournalEntry) (string, error)
	GenerateMeditation(ctx context.Context, topic string, durationMinutes int) (string, error)
	GenerateQuote(ctx context.Context, theme string) (string, error)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type flowRequest struct {
	Flow  string                 `json:"flow"`
	Input map[string]interface{} `json:"input"`
}

type flowResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

type aiService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAIService() AIService {
	return &aiService{
		baseURL: os.Getenv("GENERATION_API_URL"),
		apiKey:  os.Getenv("GENERATION_API_KEY"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *aiService) ConcernChat(ctx context.Context, concern string, history []ChatMessage) (string, error) {
	return s.runFlow(ctx, "concern-chat", map[string]interface{}{
		"concern": concern,
		"history": history,
	})
}

func (s *aiService) AnalyzeJournal(ctx context.Context, entries []models.JournalEntry) (string, error) {
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		texts = append(texts, entry.Body)
	}
	return s.runFlow(ctx, "journal-analysis", map[string]interface{}{
		"entries": texts,
	})
}

func (s *aiService) GenerateMeditation(ctx context.Context, topic string, durationMinutes int) (string, error) {
	return s.runFlow(ctx, "custom-meditation", map[string]interface{}{
		"topic":            topic,
		"duration_minutes": durationMinutes,
	})
}

func (s *aiService) GenerateQuote(ctx context.Context, theme string) (string, error) {
	return s.runFlow(ctx, "custom-quote", map[string]interface{}{
		"theme": theme,
	})
}

func (s *aiService) runFlow(ctx context.Context, flow string, input map[string]interface{}) (string, error) {
	body, err := json.Marshal(flowRequest{Flow: flow, Input: input})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/flows:run", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation flow %s failed with status %d", flow, resp.StatusCode)
	}

	var out flowResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("generation flow %s: %s", flow, out.Error)
	}

	return out.Output, nil
}
