package dto

// CreateBookingRequest books one suggested slot
type CreateBookingRequest struct {
	OrganizerEmail   string `json:"organizer_email"`
	ParticipantEmail string `json:"participant_email"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Start            string `json:"start"`
	DurationMinutes  int    `json:"duration_minutes"`
	Timezone         string `json:"timezone,omitempty"`
}

// BookingResponse is the public view of a booking
type BookingResponse struct {
	Reference        string `json:"reference"`
	OrganizerEmail   string `json:"organizer_email"`
	ParticipantEmail string `json:"participant_email"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Timezone         string `json:"timezone"`
	MeetLink         string `json:"meet_link,omitempty"`
	ICSUrl           string `json:"ics_url,omitempty"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}
