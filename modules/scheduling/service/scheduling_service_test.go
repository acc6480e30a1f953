package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"meetsync/core/config"
	"meetsync/core/errors"
	"meetsync/modules/scheduling/dto"
)

type fakeResolver struct {
	tokens map[string]string
}

func (f *fakeResolver) ResolveCalendarToken(_ context.Context, identifier string) (string, *errors.AppError) {
	token, ok := f.tokens[identifier]
	if !ok {
		return "", errors.NewAppError(errors.ErrUnauthorized, "no stored credential", nil)
	}
	return token, nil
}

type fakeGateway struct {
	timezones map[string]string
	busy      map[string][]BusyInterval
	busyErr   error
	busyCalls int
}

func (f *fakeGateway) ResolveTimezoneOrDefault(_ context.Context, _ string, identifier string) string {
	if zone, ok := f.timezones[identifier]; ok {
		return zone
	}
	return "UTC"
}

func (f *fakeGateway) GetBusyIntervals(_ context.Context, _ string, identifier string, _, _ time.Time) ([]BusyInterval, error) {
	f.busyCalls++
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return f.busy[identifier], nil
}

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		FallbackStartHour: 8,
		FallbackEndHour:   17,
		StepMinutes:       30,
		MinNoticeHours:    2,
		ExcludeWeekends:   true,
		Scoring: config.ScoringConfig{
			MaxScore:                           100,
			MinScoreToSuggest:                  20,
			OverlapPenaltyPerMinute:            -1.5,
			EarlierIsBetterPenaltyPerDay:       -5,
			DistanceFromMidpointPenaltyPerHour: -2,
			MorningBonus:                       10,
			DefaultTopSuggestions:              5,
		},
	}
}

func validRequest() *dto.SuggestRequest {
	return &dto.SuggestRequest{
		OrganizerEmail:   "org@example.com",
		ParticipantEmail: "part@example.com",
		WindowStart:      time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		WindowDays:       7,
		DurationMinutes:  30,
	}
}

func TestSuggestServiceLiveDataWhenBothResolved(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]string{
		"org@example.com":  "tok-org",
		"part@example.com": "tok-part",
	}}
	gateway := &fakeGateway{timezones: map[string]string{
		"org@example.com":  "America/New_York",
		"part@example.com": "Europe/London",
	}}
	svc := NewSchedulingService(resolver, gateway, testSchedulingConfig())

	resp, appErr := svc.Suggest(context.Background(), validRequest())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if resp.Provisional {
		t.Error("expected live (non-provisional) result with both credentials resolved")
	}
	if gateway.busyCalls != 2 {
		t.Errorf("expected 2 busy lookups, got %d", gateway.busyCalls)
	}
	if resp.OrganizerTimezone != "America/New_York" || resp.ParticipantTimezone != "Europe/London" {
		t.Errorf("timezones not propagated: %q / %q", resp.OrganizerTimezone, resp.ParticipantTimezone)
	}
}

func TestSuggestServiceProvisionalWhenCredentialUnresolved(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]string{
		"org@example.com": "tok-org", // participant has no stored credential
	}}
	gateway := &fakeGateway{}
	svc := NewSchedulingService(resolver, gateway, testSchedulingConfig())

	resp, appErr := svc.Suggest(context.Background(), validRequest())
	if appErr != nil {
		t.Fatalf("credential absence must not fail the request: %v", appErr)
	}
	if !resp.Provisional {
		t.Error("expected provisional result with an unresolved credential")
	}
	if gateway.busyCalls != 0 {
		t.Errorf("busy lookup should be skipped without both tokens, got %d calls", gateway.busyCalls)
	}
	for _, s := range resp.Suggestions {
		if !s.Provisional {
			t.Errorf("suggestion %s not marked provisional", s.Start)
		}
	}
}

func TestSuggestServiceProvisionalOnBusyFetchFailure(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]string{
		"org@example.com":  "tok-org",
		"part@example.com": "tok-part",
	}}
	gateway := &fakeGateway{busyErr: fmt.Errorf("upstream timeout")}
	svc := NewSchedulingService(resolver, gateway, testSchedulingConfig())

	resp, appErr := svc.Suggest(context.Background(), validRequest())
	if appErr != nil {
		t.Fatalf("busy fetch failure must not fail the request: %v", appErr)
	}
	if !resp.Provisional {
		t.Error("expected provisional result after busy fetch failure")
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected suggestions despite the degraded fetch")
	}
}

func TestSuggestServiceValidation(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]string{}}
	svc := NewSchedulingService(resolver, &fakeGateway{}, testSchedulingConfig())

	tests := []struct {
		name   string
		mutate func(*dto.SuggestRequest)
	}{
		{"missing organizer", func(r *dto.SuggestRequest) { r.OrganizerEmail = "" }},
		{"missing participant", func(r *dto.SuggestRequest) { r.ParticipantEmail = "" }},
		{"bad window start", func(r *dto.SuggestRequest) { r.WindowStart = "yesterday" }},
		{"window too long", func(r *dto.SuggestRequest) { r.WindowDays = 42 }},
		{"negative duration", func(r *dto.SuggestRequest) { r.DurationMinutes = -30 }},
		{"negative step", func(r *dto.SuggestRequest) { r.StepMinutes = -5 }},
		{"inverted hours", func(r *dto.SuggestRequest) {
			start, end := 17, 8
			r.FallbackStartHour, r.FallbackEndHour = &start, &end
		}},
		{"negative notice", func(r *dto.SuggestRequest) {
			n := -1
			r.MinNoticeHours = &n
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, appErr := svc.Suggest(context.Background(), req)
			if appErr == nil {
				t.Fatal("expected a validation error")
			}
			if appErr.Code != errors.ErrInvalidInput {
				t.Errorf("got code %s, want %s", appErr.Code, errors.ErrInvalidInput)
			}
		})
	}
}

func TestSuggestServiceAppliesDefaults(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]string{}}
	svc := NewSchedulingService(resolver, &fakeGateway{}, testSchedulingConfig())

	req := &dto.SuggestRequest{
		OrganizerEmail:   "org@example.com",
		ParticipantEmail: "part@example.com",
		WindowStart:      time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
	}

	resp, appErr := svc.Suggest(context.Background(), req)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(resp.Suggestions) == 0 {
		t.Fatal("expected suggestions using configured defaults")
	}

	for _, s := range resp.Suggestions {
		start, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			t.Fatalf("start not RFC3339: %q", s.Start)
		}
		end, err := time.Parse(time.RFC3339, s.End)
		if err != nil {
			t.Fatalf("end not RFC3339: %q", s.End)
		}
		if end.Sub(start) != 30*time.Minute {
			t.Errorf("default duration not applied: %v", end.Sub(start))
		}
	}
}
