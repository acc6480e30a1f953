package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/entity"
)

var errCacheMiss = fmt.Errorf("cache miss")

type fakeCache struct {
	data map[string]string
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (c *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.data[key] = value
	c.sets++
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Close() error { return nil }

type stubRepo struct {
	connections []entity.CalendarConnection
	deactivated []string
}

func (r *stubRepo) GetConnectionsByUserID(_ context.Context, _ uuid.UUID) ([]entity.CalendarConnection, error) {
	return r.connections, nil
}

func (r *stubRepo) DeactivateConnection(_ context.Context, _ uuid.UUID, provider string) error {
	r.deactivated = append(r.deactivated, provider)
	return nil
}

func TestGetBusyIntervalsParsesFreeBusyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/freeBusy" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("missing bearer token, got %q", got)
		}

		var payload struct {
			TimeMin string `json:"timeMin"`
			TimeMax string `json:"timeMax"`
			Items   []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad request payload: %v", err)
		}
		if len(payload.Items) != 1 || payload.Items[0].ID != "user@example.com" {
			t.Errorf("unexpected items: %+v", payload.Items)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"calendars": {
				"user@example.com": {
					"busy": [
						{"start": "2026-01-05T09:00:00Z", "end": "2026-01-05T09:30:00Z"},
						{"start": "2026-01-05T14:00:00Z", "end": "2026-01-05T15:00:00Z"}
					]
				}
			}
		}`))
	}))
	defer server.Close()

	svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	periods, err := svc.GetBusyIntervals(context.Background(), "tok-1", "user@example.com", start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("got %d busy periods, want 2", len(periods))
	}
	if !periods[0].Start.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("first interval start: %v", periods[0].Start)
	}
	if !periods[1].End.Equal(time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("second interval end: %v", periods[1].End)
	}
}

func TestGetBusyIntervalsErrorsOnAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "insufficient permissions"}}`))
	}))
	defer server.Close()

	svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)

	_, err := svc.GetBusyIntervals(context.Background(), "tok-1", "user@example.com", time.Now(), time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("expected an error on non-200 response")
	}
}

func TestResolveTimezonePrefersCache(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.Write([]byte(`{"value": "Asia/Tokyo"}`))
	}))
	defer server.Close()

	c := newFakeCache()
	c.data["tz:user@example.com"] = "Europe/Paris"

	svc := NewCalendarServiceWithBase(&stubRepo{}, c, server.URL)

	zone := svc.ResolveTimezoneOrDefault(context.Background(), "tok-1", "user@example.com")
	if zone != "Europe/Paris" {
		t.Errorf("got %q, want cached Europe/Paris", zone)
	}
	if called {
		t.Error("settings API should not be called on cache hit")
	}
}

func TestResolveTimezoneFetchesAndCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/settings/timezone" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"value": "Asia/Tokyo"}`))
	}))
	defer server.Close()

	c := newFakeCache()
	svc := NewCalendarServiceWithBase(&stubRepo{}, c, server.URL)

	zone := svc.ResolveTimezoneOrDefault(context.Background(), "tok-1", "user@example.com")
	if zone != "Asia/Tokyo" {
		t.Errorf("got %q, want Asia/Tokyo", zone)
	}
	if c.data["tz:user@example.com"] != "Asia/Tokyo" {
		t.Error("resolved timezone was not cached")
	}
}

func TestResolveTimezoneFallsBackToUTC(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		handler http.HandlerFunc
	}{
		{
			name:  "no token",
			token: "",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				t.Error("API must not be called without a token")
			},
		},
		{
			name:  "API failure",
			token: "tok-1",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name:  "unknown zone name",
			token: "tok-1",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"value": "Not/AZone"}`))
			},
		},
		{
			name:  "empty value",
			token: "tok-1",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"value": ""}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)
			if zone := svc.ResolveTimezoneOrDefault(context.Background(), tt.token, "user@example.com"); zone != "UTC" {
				t.Errorf("got %q, want UTC fallback", zone)
			}
		})
	}
}

func TestCreateEventRequestsConferencing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendars/primary/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("conferenceDataVersion") != "1" {
			t.Error("conferenceDataVersion=1 not requested")
		}

		var event map[string]any
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if event["summary"] != "Weekly sync" {
			t.Errorf("summary: %v", event["summary"])
		}
		if _, ok := event["conferenceData"]; !ok {
			t.Error("conferenceData missing from payload")
		}
		if attendees, ok := event["attendees"].([]any); !ok || len(attendees) != 2 {
			t.Errorf("attendees: %v", event["attendees"])
		}

		w.Write([]byte(`{
			"id": "evt-123",
			"htmlLink": "https://calendar.google.com/event?eid=evt-123",
			"hangoutLink": "https://meet.google.com/abc-defg-hij"
		}`))
	}))
	defer server.Close()

	svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)

	details, err := svc.CreateEvent(context.Background(), "tok-1", &dto.CreateEventParams{
		Title:            "Weekly sync",
		StartTime:        "2026-01-05T09:00:00Z",
		EndTime:          "2026-01-05T09:30:00Z",
		Timezone:         "UTC",
		Attendees:        []string{"org@example.com", "part@example.com"},
		WithConferencing: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.EventID != "evt-123" {
		t.Errorf("event id: %q", details.EventID)
	}
	if details.MeetLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("meet link: %q", details.MeetLink)
	}
}

func TestDeleteEventOrganizerDeletes(t *testing.T) {
	var sawDelete bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"organizer": {"email": "org@example.com", "self": true}}`))
		case http.MethodDelete:
			sawDelete = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)

	if err := svc.DeleteEvent(context.Background(), "tok-1", "org@example.com", "evt-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawDelete {
		t.Error("organizer path should DELETE the event")
	}
}

func TestDeleteEventAttendeeDeclines(t *testing.T) {
	var sawPatch bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"organizer": {"email": "org@example.com", "self": false}}`))
		case http.MethodPatch:
			sawPatch = true
			var payload struct {
				Attendees []struct {
					Email          string `json:"email"`
					ResponseStatus string `json:"responseStatus"`
				} `json:"attendees"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("bad patch payload: %v", err)
			}
			if len(payload.Attendees) != 1 || payload.Attendees[0].ResponseStatus != "declined" {
				t.Errorf("unexpected patch payload: %+v", payload.Attendees)
			}
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	svc := NewCalendarServiceWithBase(&stubRepo{}, newFakeCache(), server.URL)

	if err := svc.DeleteEvent(context.Background(), "tok-1", "attendee@example.com", "evt-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawPatch {
		t.Error("attendee path should PATCH a decline")
	}
}
