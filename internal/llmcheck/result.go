package llmcheck

import "time"

// FieldMatch is the model's verdict on a single transferred field.
type FieldMatch struct {
	Field       string  `json:"field"`
	SourceValue string  `json:"source_value"`
	DestValue   string  `json:"dest_value"`
	Match       string  `json:"match"`
	Confidence  float64 `json:"confidence"`
}

// Result is the structured outcome of an LLM validation run.
type Result struct {
	AccuracyScore        float64      `json:"accuracy_score"`
	IsSuccessfulTransfer bool         `json:"is_successful_transfer"`
	Summary              string       `json:"summary"`
	MatchedData          []FieldMatch `json:"matched_data"`
	MissingData          []FieldMatch `json:"missing_data"`
	IncorrectData        []FieldMatch `json:"incorrect_data"`
	Recommendations      []string     `json:"recommendations"`
	Confidence           float64      `json:"confidence"`
	ValidationFlags      []string     `json:"validation_flags"`
	TotalFields          int          `json:"total_fields_identified"`
	FieldsCorrect        int          `json:"fields_transferred_correctly"`
	CriticalErrors       int          `json:"critical_errors"`
	ContextualOmissions  int          `json:"contextual_omissions"`
	ProcessedAt          time.Time    `json:"processed_at"`
	RawResponse          string       `json:"raw_response"`
	FallbackResult       bool         `json:"fallback_result,omitempty"`
	ValidationApproach   string       `json:"validation_approach"`
	ValidatorVersion     string       `json:"validator_version"`
}
