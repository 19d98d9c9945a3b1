package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/programpal/pathfinder/internal/model"
)

const ScorecardSource = "US College Scorecard"

var scorecardFields = []string{
	"school.name",
	"school.city",
	"school.state",
	"school.school_url",
	"latest.student.size",
	"latest.cost.tuition.in_state",
	"latest.cost.tuition.out_of_state",
}

var scorecardStopWords = map[string]bool{
	"us": true, "usa": true, "in": true, "the": true, "a": true, "for": true,
}

// Scorecard queries the US Department of Education College Scorecard API.
// Without an API key it returns canned results.
type Scorecard struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	stubMode   bool
}

func NewScorecard(baseURL, apiKey string, timeout time.Duration) *Scorecard {
	return &Scorecard{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		stubMode:   apiKey == "",
	}
}

func (s *Scorecard) Name() string { return ScorecardSource }

func (s *Scorecard) Timeout() time.Duration { return s.timeout }

type scorecardResponse struct {
	Results []map[string]any `json:"results"`
}

func (s *Scorecard) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if s.stubMode {
		return stubScorecardResults(), nil
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("school.name", schoolNameFilter(query))
	params.Set("fields", strings.Join(scorecardFields, ","))
	params.Set("per_page", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scorecard returned status %d: %s", resp.StatusCode, string(body))
	}

	var body scorecardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(body.Results))
	for _, school := range body.Results {
		results = append(results, mapScorecardSchool(school))
	}
	return results, nil
}

// schoolNameFilter drops words that would only narrow the name match.
func schoolNameFilter(query string) string {
	var keep []string
	for _, word := range strings.Fields(query) {
		if !scorecardStopWords[strings.ToLower(word)] {
			keep = append(keep, word)
		}
	}
	if len(keep) == 0 {
		return strings.TrimSpace(query)
	}
	return strings.Join(keep, " ")
}

func mapScorecardSchool(school map[string]any) model.SearchResult {
	name := orUnknown(stringValue(school["school.name"]))
	city := strings.TrimSpace(stringValue(school["school.city"]))
	state := strings.TrimSpace(stringValue(school["school.state"]))

	schoolURL := strings.TrimSpace(stringValue(school["school.school_url"]))
	if schoolURL != "" && !strings.Contains(schoolURL, "://") {
		schoolURL = "https://" + schoolURL
	}

	var description []string
	if city != "" || state != "" {
		description = append(description, fmt.Sprintf("Located in %s.", strings.Trim(city+", "+state, ", ")))
	}
	if size := stringValue(school["latest.student.size"]); size != "" {
		description = append(description, fmt.Sprintf("Student body of about %s.", size))
	}

	var tuition []string
	if v := stringValue(school["latest.cost.tuition.in_state"]); v != "" {
		tuition = append(tuition, "In-state: $"+v)
	}
	if v := stringValue(school["latest.cost.tuition.out_of_state"]); v != "" {
		tuition = append(tuition, "Out-of-state: $"+v)
	}

	programName := model.Unknown
	if name != model.Unknown {
		programName = "Programs at " + name
	}

	return model.SearchResult{
		ProgramName:    programName,
		UniversityName: name,
		Country:        "USA",
		URL:            orUnknown(schoolURL),
		Description:    orUnknown(strings.Join(description, " ")),
		TuitionFees:    orUnknown(strings.Join(tuition, ", ")),
		Ranking:        model.Unknown,
		IntakeDates:    []string{},
		VisaSupport:    nil,
		Source:         ScorecardSource,
	}
}

func stubScorecardResults() []model.SearchResult {
	return []model.SearchResult{
		mapScorecardSchool(map[string]any{
			"school.name":                      "Massachusetts Institute of Technology",
			"school.city":                      "Cambridge",
			"school.state":                     "MA",
			"school.school_url":                "web.mit.edu",
			"latest.student.size":              float64(4638),
			"latest.cost.tuition.in_state":     float64(59750),
			"latest.cost.tuition.out_of_state": float64(59750),
		}),
		mapScorecardSchool(map[string]any{
			"school.name":                      "University of California-Berkeley",
			"school.city":                      "Berkeley",
			"school.state":                     "CA",
			"school.school_url":                "www.berkeley.edu",
			"latest.student.size":              float64(32831),
			"latest.cost.tuition.in_state":     float64(14850),
			"latest.cost.tuition.out_of_state": float64(48465),
		}),
	}
}
