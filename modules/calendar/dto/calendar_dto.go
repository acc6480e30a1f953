package dto

// CalendarConnectionResponse describes a linked calendar provider
type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email,omitempty"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}

// CreateEventParams is the provider-agnostic event insert request built by
// the booking module.
type CreateEventParams struct {
	Title            string
	Description      string
	StartTime        string
	EndTime          string
	Timezone         string
	Attendees        []string
	WithConferencing bool
}

// EventDetails is the provider's view of a created event
type EventDetails struct {
	EventID  string
	HTMLLink string
	MeetLink string
}
