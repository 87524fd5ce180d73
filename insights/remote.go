package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"waitline/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Remote asks a hosted text-generation model for insights and delegates
// to the heuristic on any failure: bad status, timeout, malformed
// response. Its Generate never returns an error to the caller.
type Remote struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	fallback   Heuristic
}

func NewRemote(apiKey string) *Remote {
	return &Remote{
		apiKey:  apiKey,
		model:   "gemini-1.5-flash",
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

type generateEnvelope struct {
	Candidates []generateCandidate `json:"candidates"`
}

func (g *Remote) Generate(ctx context.Context, place models.Place, recentReports []models.Report) []string {
	out, err := g.call(ctx, place, recentReports)
	if err != nil {
		log.Printf("insights: remote generation failed, using heuristics: %v", err)
		return g.fallback.Generate(ctx, place, recentReports)
	}
	return out
}

func (g *Remote) call(ctx context.Context, place models.Place, recentReports []models.Report) ([]string, error) {
	prompt := buildPrompt(place, recentReports)

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generation request failed with status %d", resp.StatusCode)
	}

	var envelope generateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty generation response")
	}

	text := envelope.Candidates[0].Content.Parts[0].Text
	// the model sometimes wraps its JSON in markdown fences
	text = strings.TrimSpace(strings.ReplaceAll(text, "```json", ""))
	text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))

	var insights []string
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("unparseable generation response: %w", err)
	}
	if len(insights) == 0 {
		return nil, fmt.Errorf("empty insight list")
	}
	if len(insights) > 2 {
		insights = insights[:2]
	}
	return insights, nil
}

func buildPrompt(place models.Place, recentReports []models.Report) string {
	var reported []string
	for _, r := range recentReports {
		reported = append(reported, fmt.Sprintf("%dm wait", r.WaitTimeReported))
	}
	reportLine := "No recent reports"
	if len(reported) > 0 {
		reportLine = strings.Join(reported, ", ")
	}

	return fmt.Sprintf(`You are an assistant for a real-time wait time app.
Generate 2 short, helpful, and concise insights (max 15 words each) for the following location:

Name: %s
Type: %s
Current Wait Time: %d minutes
Crowd Level: %s
Recent Reports: %s
Current Time: %s

Guidelines:
- Focus on whether now is a good time to visit.
- Be empathetic and professional.
- Format output as a JSON array of strings: ["insight1", "insight2"]`,
		place.Name,
		place.Category,
		place.CurrentWaitTime,
		place.CrowdLevel,
		reportLine,
		time.Now().Format("15:04:05"),
	)
}
