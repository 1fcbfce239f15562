package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"merchantpulse/backend/analytics"
	"merchantpulse/backend/config"
	"merchantpulse/backend/insights"
)

const systemInstructions = `You are an intelligent payment insights assistant for online merchants.
Your goal is to provide concise, actionable, and data-backed answers based on the provided payment data.
Always format numerical values clearly (e.g., ₹1,234.56, 15%).
If chart data is returned, clearly state what the chart represents in the answer.
If you cannot fulfill a request, politely state so and mention the available data range when relevant.

The backend has already computed aggregates for you via these functions:
- total amount received for a date
- refund count and amount for yesterday
- payment method performance over a week or month
- refund spike root cause analysis for a date
- payment method trend for a method and period
- customer payment behavior by method
- EMI recommendation for a minimum order value
- weekend transaction forecast
- success rate and industry benchmark
- transaction volume deviation for today

Output format: return STRICT JSON only, no commentary, no markdown fences, with keys exactly:
{"question": "...", "answer": "... (may contain <br>)", "chartData": {"labels": [...], "data": [...], "type": "line"|"bar"|"pie"}}
If no chart is applicable, "chartData" must be an empty object {}.`

// Bridge calls Gemini as the last-resort answer generator. Calls are
// bounded by Timeout and retried once; every failure mode surfaces as an
// error for the router to degrade on.
type Bridge struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func New(cfg config.Config) *Bridge {
	return &Bridge{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, Timeout: 20 * time.Second}
}

func (b *Bridge) Answer(ctx context.Context, query string, digest map[string]any) (insights.FallbackAnswer, error) {
	if b.APIKey == "" {
		return insights.FallbackAnswer{}, errors.New("gemini api key not configured")
	}

	digestJSON, _ := json.MarshalIndent(digest, "", "  ")
	prompt := systemInstructions + "\n\nMy query: " + query +
		"\n\nRelevant data provided by backend:\n" + string(digestJSON)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := b.generate(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		fa, err := parseAnswer(text)
		if err != nil {
			lastErr = err
			continue
		}
		return fa, nil
	}
	return insights.FallbackAnswer{}, lastErr
}

func (b *Bridge) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(b.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(b.Model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := extractText(resp)
	if text == "" {
		return "", errors.New("gemini returned empty response")
	}
	return text, nil
}

func parseAnswer(text string) (insights.FallbackAnswer, error) {
	cleaned := stripFences(text)
	var out struct {
		Answer    string          `json:"answer"`
		ChartData json.RawMessage `json:"chartData"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return insights.FallbackAnswer{}, fmt.Errorf("malformed bridge response: %w", err)
	}
	fa := insights.FallbackAnswer{Answer: strings.TrimSpace(out.Answer)}
	if len(out.ChartData) > 0 {
		var chart analytics.ChartData
		if err := json.Unmarshal(out.ChartData, &chart); err == nil && len(chart.Labels) > 0 {
			fa.Chart = &chart
		}
	}
	return fa, nil
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
