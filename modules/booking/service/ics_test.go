package service

import (
	"strings"
	"testing"
	"time"

	"meetsync/modules/booking/entity"
)

func TestBuildICS(t *testing.T) {
	meetLink := "https://meet.google.com/abc-defg-hij"
	description := "Agenda: roadmap, priorities"

	booking := &entity.Booking{
		Reference:        "weekly-sync-Ab3dEf9",
		OrganizerEmail:   "org@example.com",
		ParticipantEmail: "part@example.com",
		Title:            "Weekly sync; Q1",
		Description:      &description,
		StartTime:        time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
		Timezone:         "UTC",
		MeetLink:         &meetLink,
		Status:           entity.BookingStatusConfirmed,
	}

	ics := string(BuildICS(booking, time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:weekly-sync-Ab3dEf9@meetsync",
		"DTSTAMP:20260104T120000Z",
		"DTSTART:20260105T090000Z",
		"DTEND:20260105T093000Z",
		`SUMMARY:Weekly sync\; Q1`,
		"ATTENDEE;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION:mailto:part@example.com",
		"URL:" + meetLink,
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS missing %q", want)
		}
	}

	if !strings.Contains(ics, `Agenda: roadmap\, priorities`) {
		t.Error("description commas not escaped")
	}
	if !strings.HasSuffix(ics, "\r\n") {
		t.Error("ICS lines must be CRLF terminated")
	}
}

func TestBuildICSWithoutOptionalFields(t *testing.T) {
	booking := &entity.Booking{
		Reference:        "quick-chat-Xy12345",
		OrganizerEmail:   "org@example.com",
		ParticipantEmail: "part@example.com",
		Title:            "Quick chat",
		StartTime:        time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC),
		Timezone:         "UTC",
		Status:           entity.BookingStatusConfirmed,
	}

	ics := string(BuildICS(booking, time.Now()))

	if strings.Contains(ics, "DESCRIPTION:") {
		t.Error("empty description should be omitted")
	}
	if strings.Contains(ics, "URL:") {
		t.Error("missing meet link should omit URL property")
	}
}

func TestFoldICSLine(t *testing.T) {
	long := "DESCRIPTION:" + strings.Repeat("a", 200)
	folded := foldICSLine(long)

	for i, line := range strings.Split(folded, "\r\n") {
		if len(line) > 76 {
			t.Errorf("folded line %d is %d octets", i, len(line))
		}
		if i > 0 && !strings.HasPrefix(line, " ") {
			t.Errorf("continuation line %d not space-prefixed", i)
		}
	}
	if strings.ReplaceAll(strings.ReplaceAll(folded, "\r\n ", ""), "\r\n", "") != long {
		t.Error("folding must be reversible")
	}
}
