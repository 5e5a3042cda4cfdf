package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TextGenerator abstracts the external generative-text service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// AIClient calls a generateContent-style endpoint and extracts the first
// candidate's text.
type AIClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewAIClient(endpoint, apiKey string) *AIClient {
	return &AIClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
	}
}

type aiRequest struct {
	Contents         []aiContent        `json:"contents"`
	GenerationConfig aiGenerationConfig `json:"generationConfig"`
}

type aiContent struct {
	Role  string   `json:"role"`
	Parts []aiPart `json:"parts"`
}

type aiPart struct {
	Text string `json:"text"`
}

type aiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type aiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []aiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *AIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	payload := aiRequest{
		Contents: []aiContent{{Role: "user", Parts: []aiPart{{Text: prompt}}}},
		GenerationConfig: aiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode AI request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build AI request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("AI service returned status %d", resp.StatusCode)
	}

	var parsed aiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI response contained no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// RoadmapPrompt asks for an exactly-N-day plain-text learning plan.
func RoadmapPrompt(technology string, days int) string {
	return fmt.Sprintf(`Create a %d-day step-by-step learning roadmap for %s.

Rules:
1. Strictly generate exactly %d days with no extra summary, introduction or conclusion.
2. Each day starts with "Day X:".
3. Each day has 2-4 clear tasks (topics plus a practical exercise).
4. Keep it concise, simple and actionable.
5. Plain text only, no markdown.`, days, technology, days)
}

// ChallengeGuidePrompt asks for a step-by-step solving guide for a challenge.
func ChallengeGuidePrompt(topic, language, question string) string {
	return fmt.Sprintf(`Provide a step-by-step guide to solve the following programming challenge:

Topic: %s
Language: %s
Question: %s

Provide detailed steps, explanations, and code snippets if necessary.`, topic, language, question)
}

// FallbackRoadmap is returned when the AI service is unavailable so the
// endpoint still responds with usable content.
func FallbackRoadmap(technology string, days int) string {
	return fmt.Sprintf("Day 1: Set up your %s environment and work through the official getting-started guide.\n"+
		"Continue with one fundamentals topic and one exercise per day for the remaining %d days.",
		technology, days-1)
}

// FallbackGuide is the static guide used when the AI service is unavailable.
func FallbackGuide(topic string) string {
	return fmt.Sprintf("1. Re-read the question for %s and restate it in your own words.\n"+
		"2. Work an example by hand using the provided test cases.\n"+
		"3. Sketch the algorithm in pseudocode before writing code.\n"+
		"4. Implement it, then run it against every test case.", topic)
}
