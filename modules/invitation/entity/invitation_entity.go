package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"meetsync/core/entity"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// MeetingData is the denormalized meeting snapshot stored with an invitation
// so it can be rendered without joining the bookings table.
type MeetingData struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
	MeetLink  string `json:"meet_link"`
}

func (m MeetingData) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MeetingData) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}

// BookingInvitation tracks a participant's response to a booked meeting.
// Invitees are addressed by email; they may not have an account yet.
type BookingInvitation struct {
	BookingReference string           `db:"booking_reference" json:"booking_reference"`
	OrganizerEmail   string           `db:"organizer_email" json:"organizer_email"`
	InviteeEmail     string           `db:"invitee_email" json:"invitee_email"`
	Status           InvitationStatus `db:"status" json:"status"`
	MeetingData      MeetingData      `db:"meeting_data" json:"meeting_data"`
	RespondedAt      *time.Time       `db:"responded_at" json:"responded_at"`
	entity.BaseEntity
}
