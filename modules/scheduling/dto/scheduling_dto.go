package dto

// SuggestRequest is the payload for POST /schedule/suggest. Optional fields
// fall back to the configured scheduling defaults.
type SuggestRequest struct {
	OrganizerEmail   string `json:"organizer_email" validate:"required"`
	ParticipantEmail string `json:"participant_email" validate:"required"`

	WindowStart string `json:"window_start,omitempty"` // RFC3339, defaults to now
	WindowDays  int    `json:"window_days,omitempty"`  // defaults to 7

	DurationMinutes int `json:"duration_minutes,omitempty"` // defaults to 30
	StepMinutes     int `json:"step_minutes,omitempty"`

	FallbackStartHour *int  `json:"fallback_start_hour,omitempty"`
	FallbackEndHour   *int  `json:"fallback_end_hour,omitempty"`
	ExcludeWeekends   *bool `json:"exclude_weekends,omitempty"`
	MinNoticeHours    *int  `json:"min_notice_hours,omitempty"`
}

// SuggestionDTO is one ranked candidate slot
type SuggestionDTO struct {
	Start       string  `json:"start"` // RFC3339 UTC
	End         string  `json:"end"`   // RFC3339 UTC
	Score       float64 `json:"score"`
	Provisional bool    `json:"provisional"`
}

// SuggestResponse carries the ranked suggestions plus the timezone context
// they were computed in
type SuggestResponse struct {
	Suggestions         []SuggestionDTO `json:"suggestions"`
	Provisional         bool            `json:"provisional"`
	OrganizerTimezone   string          `json:"organizer_timezone"`
	ParticipantTimezone string          `json:"participant_timezone"`
}
