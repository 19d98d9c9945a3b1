package model

// Unknown fills result fields a provider did not supply.
const Unknown = "unknown"

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResult struct {
	ProgramName    string   `json:"program_name"`
	UniversityName string   `json:"university_name"`
	Country        string   `json:"country"`
	URL            string   `json:"url"`
	Description    string   `json:"description"`
	TuitionFees    string   `json:"tuition_fees"`
	Ranking        string   `json:"ranking"`
	IntakeDates    []string `json:"intake_dates"`
	VisaSupport    *string  `json:"visa_support"`
	Source         string   `json:"source"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Summary string         `json:"summary"`
}
