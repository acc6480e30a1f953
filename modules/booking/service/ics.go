package service

import (
	"fmt"
	"strings"
	"time"

	"meetsync/modules/booking/entity"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders a minimal single-event iCalendar document for a booking
func BuildICS(booking *entity.Booking, generatedAt time.Time) []byte {
	var b strings.Builder

	description := ""
	if booking.Description != nil {
		description = *booking.Description
	}
	if booking.MeetLink != nil && *booking.MeetLink != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Join: " + *booking.MeetLink
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//meetsync//bookings//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + booking.Reference + "@meetsync",
		"DTSTAMP:" + generatedAt.UTC().Format(icsTimeLayout),
		"DTSTART:" + booking.StartTime.UTC().Format(icsTimeLayout),
		"DTEND:" + booking.EndTime.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeICSText(booking.Title),
		"ORGANIZER;CN=" + escapeICSText(booking.OrganizerEmail) + ":mailto:" + booking.OrganizerEmail,
		"ATTENDEE;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION:mailto:" + booking.ParticipantEmail,
		"STATUS:CONFIRMED",
	}
	if description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(description))
	}
	if booking.MeetLink != nil && *booking.MeetLink != "" {
		lines = append(lines, "URL:"+*booking.MeetLink)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	for _, line := range lines {
		b.WriteString(foldICSLine(line))
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// escapeICSText escapes the characters RFC 5545 reserves in TEXT values
func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// foldICSLine folds content lines longer than 75 octets per RFC 5545 §3.1
func foldICSLine(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}

	var b strings.Builder
	for len(line) > limit {
		b.WriteString(line[:limit])
		b.WriteString("\r\n ")
		line = line[limit:]
	}
	b.WriteString(line)
	return b.String()
}

// icsObjectKey is the S3 key for a booking's calendar export
func icsObjectKey(reference string) string {
	return fmt.Sprintf("bookings/%s.ics", reference)
}
