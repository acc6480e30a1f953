package entity

import (
	"time"

	"meetsync/core/entity"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed meeting between two participants, backed by one
// best-effort calendar event insert on the organizer's calendar.
type Booking struct {
	Reference        string        `db:"reference" json:"reference"`
	OrganizerEmail   string        `db:"organizer_email" json:"organizer_email"`
	ParticipantEmail string        `db:"participant_email" json:"participant_email"`
	Title            string        `db:"title" json:"title"`
	Description      *string       `db:"description" json:"description,omitempty"`
	StartTime        time.Time     `db:"start_time" json:"start_time"`
	EndTime          time.Time     `db:"end_time" json:"end_time"`
	Timezone         string        `db:"timezone" json:"timezone"`
	MeetLink         *string       `db:"meet_link" json:"meet_link,omitempty"`
	CalendarEventID  *string       `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	ICSUrl           *string       `db:"ics_url" json:"ics_url,omitempty"`
	Status           BookingStatus `db:"status" json:"status"`
	entity.BaseEntity
}

type PaginatedBookingEntity = entity.Pagination[Booking]
