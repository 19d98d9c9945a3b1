package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/programpal/pathfinder/internal/model"
)

const PerplexitySource = "Perplexity AI"

const perplexitySystemPrompt = "You are an AI assistant that helps students find university programs. " +
	"Answer only with a JSON list of objects. Each object must have the keys program_name, university_name, " +
	"country, url, description, tuition_fees, ranking, intake_dates (a list of strings) and visa_support. " +
	"Use null for anything you do not know. Do not add any text outside the JSON."

// Perplexity asks the Perplexity chat completions API for matching programs.
// Without an API key it returns canned results.
type Perplexity struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	stubMode   bool
}

func NewPerplexity(baseURL, apiKey, modelName string, timeout time.Duration) *Perplexity {
	return &Perplexity{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      modelName,
		timeout:    timeout,
		httpClient: &http.Client{},
		stubMode:   apiKey == "",
	}
}

func (p *Perplexity) Name() string { return PerplexitySource }

func (p *Perplexity) Timeout() time.Duration { return p.timeout }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *Perplexity) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if p.stubMode {
		return parseProgramList(stubPerplexityAnswer)
	}

	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: perplexitySystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Find university programs matching: %s", query)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("perplexity returned status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("perplexity response has no choices")
	}

	return parseProgramList(chat.Choices[0].Message.Content)
}

// parseProgramList extracts the JSON list from a model answer, tolerating
// markdown code fences and chatter around the list.
func parseProgramList(answer string) ([]model.SearchResult, error) {
	raw := stripCodeFence(answer)

	var items []map[string]any
	err := json.Unmarshal([]byte(raw), &items)
	if err != nil {
		start := strings.IndexByte(raw, '[')
		end := strings.LastIndexByte(raw, ']')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("answer is not a JSON list: %w", err)
		}
		err = json.Unmarshal([]byte(raw[start:end+1]), &items)
		if err != nil {
			return nil, fmt.Errorf("answer is not a JSON list: %w", err)
		}
	}

	results := make([]model.SearchResult, 0, len(items))
	for _, item := range items {
		result, ok := mapProgramItem(item)
		if ok {
			results = append(results, result)
		}
	}
	return results, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line (```json)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// mapProgramItem converts one answer entry. Entries without both a program
// and a university name are dropped.
func mapProgramItem(item map[string]any) (model.SearchResult, bool) {
	program := strings.TrimSpace(stringValue(item["program_name"]))
	university := strings.TrimSpace(stringValue(item["university_name"]))
	if program == "" || university == "" {
		return model.SearchResult{}, false
	}

	var visa *string
	if v := strings.TrimSpace(stringValue(item["visa_support"])); v != "" {
		visa = &v
	}

	return model.SearchResult{
		ProgramName:    program,
		UniversityName: university,
		Country:        orUnknown(stringValue(item["country"])),
		URL:            orUnknown(stringValue(item["url"])),
		Description:    orUnknown(stringValue(item["description"])),
		TuitionFees:    orUnknown(stringValue(item["tuition_fees"])),
		Ranking:        orUnknown(stringValue(item["ranking"])),
		IntakeDates:    intakeDates(item["intake_dates"]),
		VisaSupport:    visa,
		Source:         PerplexitySource,
	}, true
}

func intakeDates(v any) []string {
	dates := []string{}
	switch x := v.(type) {
	case []any:
		for _, d := range x {
			if s := strings.TrimSpace(stringValue(d)); s != "" {
				dates = append(dates, s)
			}
		}
	case string:
		if s := strings.TrimSpace(x); s != "" {
			dates = append(dates, s)
		}
	}
	return dates
}

const stubPerplexityAnswer = "```json\n" + `[
  {
    "program_name": "MSc Computer Science",
    "university_name": "Technical University of Munich",
    "country": "Germany",
    "url": "https://www.tum.de/en/studies/degree-programs",
    "description": "Research oriented master's programme with specialisations in AI and systems.",
    "tuition_fees": "EUR 6,000 per semester for non-EU students",
    "ranking": "QS 37",
    "intake_dates": ["October", "April"],
    "visa_support": "Student visa guidance through the international office"
  },
  {
    "program_name": "MSc Data Science",
    "university_name": "University of Amsterdam",
    "country": "Netherlands",
    "url": "https://www.uva.nl/en",
    "description": "One year programme combining statistics, machine learning and ethics.",
    "tuition_fees": "EUR 20,200 per year for non-EU students",
    "ranking": null,
    "intake_dates": ["September"],
    "visa_support": null
  }
]` + "\n```"
