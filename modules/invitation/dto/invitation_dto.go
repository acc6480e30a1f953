package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateInvitationRequest is built by the booking module after a successful
// calendar insert.
type CreateInvitationRequest struct {
	BookingReference string
	OrganizerEmail   string
	InviteeEmail     string
	Title            string
	StartTime        string
	EndTime          string
	Timezone         string
	MeetLink         string
}

// MeetingDataDTO mirrors the stored meeting snapshot
type MeetingDataDTO struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
	MeetLink  string `json:"meet_link,omitempty"`
}

type InvitationResponse struct {
	ID               uuid.UUID      `json:"id"`
	BookingReference string         `json:"booking_reference"`
	OrganizerEmail   string         `json:"organizer_email"`
	Status           string         `json:"status"`
	MeetingData      MeetingDataDTO `json:"meeting_data"`
	CreatedAt        time.Time      `json:"created_at"`
}

type PendingInvitationsResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Total       int                  `json:"total"`
}
