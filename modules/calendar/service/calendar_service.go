package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/entity"
	"meetsync/modules/calendar/repository"
)

const googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

type CalendarServiceInterface interface {
	// Connection management
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error

	// Provider operations. Access tokens are resolved by the caller; an empty
	// token makes timezone resolution fall through to the default.
	GetBusyIntervals(ctx context.Context, accessToken, identifier string, start, end time.Time) ([]entity.BusyPeriod, error)
	ResolveTimezoneOrDefault(ctx context.Context, accessToken, identifier string) string
	CreateEvent(ctx context.Context, accessToken string, params *dto.CreateEventParams) (*dto.EventDetails, error)
	DeleteEvent(ctx context.Context, accessToken, calendarEmail, eventID string) error
}

type CalendarService struct {
	repo    repository.CalendarRepositoryInterface
	cache   cache.Cache
	client  *http.Client
	apiBase string
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, c cache.Cache) CalendarServiceInterface {
	return &CalendarService{
		repo:    repo,
		cache:   c,
		client:  &http.Client{Timeout: constants.DefaultTimeout},
		apiBase: googleCalendarAPIBase,
	}
}

// NewCalendarServiceWithBase overrides the Google API base URL, used by tests
func NewCalendarServiceWithBase(repo repository.CalendarRepositoryInterface, c cache.Cache, apiBase string) CalendarServiceInterface {
	return &CalendarService{
		repo:    repo,
		cache:   c,
		client:  &http.Client{Timeout: constants.DefaultTimeout},
		apiBase: apiBase,
	}
}

// GetConnections returns all calendar connections for a user
func (s *CalendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Calendar:GetConnections:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list calendar connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for _, conn := range connections {
		item := dto.CalendarConnectionResponse{
			ID:          conn.ID.String(),
			Provider:    conn.Provider,
			IsActive:    conn.IsActive,
			ConnectedAt: conn.CreatedAt.Format(time.RFC3339),
		}
		if conn.ProviderEmail != nil {
			item.CalendarEmail = *conn.ProviderEmail
		}
		result = append(result, item)
	}
	return result, nil
}

// DisconnectCalendar clears stored tokens for the given provider
func (s *CalendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error {
	if err := s.repo.DeactivateConnection(ctx, userID, provider); err != nil {
		logger.Error("Calendar:DisconnectCalendar:Error", "user_id", userID, "provider", provider, "error", err)
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to disconnect calendar", err)
	}
	return nil
}

// GetBusyIntervals queries the provider freeBusy API for one calendar over
// [start, end). Returned intervals are in UTC.
func (s *CalendarService) GetBusyIntervals(ctx context.Context, accessToken, identifier string, start, end time.Time) ([]entity.BusyPeriod, error) {
	payload := map[string]any{
		"timeMin": start.UTC().Format(time.RFC3339),
		"timeMax": end.UTC().Format(time.RFC3339),
		"items":   []map[string]string{{"id": identifier}},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/freeBusy", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("freeBusy API status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	cal, ok := result.Calendars[identifier]
	if !ok {
		return nil, nil
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freeBusy calendar error: %s", cal.Errors[0].Reason)
	}

	var periods []entity.BusyPeriod
	for _, busy := range cal.Busy {
		busyStart, err1 := time.Parse(time.RFC3339, busy.Start)
		busyEnd, err2 := time.Parse(time.RFC3339, busy.End)
		if err1 != nil || err2 != nil {
			logger.Warn("Calendar:GetBusyIntervals:BadInterval", "identifier", identifier, "start", busy.Start, "end", busy.End)
			continue
		}
		periods = append(periods, entity.BusyPeriod{Start: busyStart.UTC(), End: busyEnd.UTC()})
	}
	return periods, nil
}

// ResolveTimezoneOrDefault returns the IANA timezone for a calendar user.
// Resolution order: config override table, redis cache, provider settings
// API. Every failure falls back to UTC; this never errors.
func (s *CalendarService) ResolveTimezoneOrDefault(ctx context.Context, accessToken, identifier string) string {
	if cfg, ok := config.GetSafe(); ok {
		if zone, found := cfg.Scheduling.TimezoneOverrides[identifier]; found && zone != "" {
			return zone
		}
	}

	cacheKey := constants.RedisKeyTimezone + identifier
	if s.cache != nil {
		if zone, err := s.cache.Get(ctx, cacheKey); err == nil && zone != "" {
			return zone
		}
	}

	if accessToken == "" {
		return "UTC"
	}

	zone, err := s.fetchCalendarTimezone(ctx, accessToken)
	if err != nil {
		logger.Warn("Calendar:ResolveTimezone:Fallback", "identifier", identifier, "error", err)
		return "UTC"
	}
	if _, err := time.LoadLocation(zone); err != nil {
		logger.Warn("Calendar:ResolveTimezone:UnknownZone", "identifier", identifier, "zone", zone)
		return "UTC"
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, zone, constants.TimezoneCacheTTL); err != nil {
			logger.Warn("Calendar:ResolveTimezone:CacheSetError", "error", err)
		}
	}
	return zone
}

func (s *CalendarService) fetchCalendarTimezone(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/users/me/settings/timezone", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("settings API status %d", resp.StatusCode)
	}

	var result struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Value == "" {
		return "", fmt.Errorf("empty timezone setting")
	}
	return result.Value, nil
}

// CreateEvent inserts an event on the token owner's primary calendar. When
// conferencing is requested a Meet link is generated by the provider.
func (s *CalendarService) CreateEvent(ctx context.Context, accessToken string, params *dto.CreateEventParams) (*dto.EventDetails, error) {
	event := map[string]any{
		"summary":     params.Title,
		"description": params.Description,
		"start": map[string]string{
			"dateTime": params.StartTime,
			"timeZone": params.Timezone,
		},
		"end": map[string]string{
			"dateTime": params.EndTime,
			"timeZone": params.Timezone,
		},
	}

	if len(params.Attendees) > 0 {
		attendees := make([]map[string]string, len(params.Attendees))
		for i, email := range params.Attendees {
			attendees[i] = map[string]string{"email": email}
		}
		event["attendees"] = attendees
	}

	eventsURL := s.apiBase + "/calendars/primary/events"
	if params.WithConferencing {
		event["conferenceData"] = map[string]any{
			"createRequest": map[string]any{
				"requestId":             uuid.NewString(),
				"conferenceSolutionKey": map[string]string{"type": "hangoutsMeet"},
			},
		}
		eventsURL += "?conferenceDataVersion=1"
	}

	body, _ := json.Marshal(event)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, eventsURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to build event request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("Calendar:CreateEvent:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create calendar event", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		logger.Error("Calendar:CreateEvent:APIError", "status", resp.StatusCode, "body", string(raw))
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Calendar provider rejected the event", nil)
	}

	var result struct {
		ID             string `json:"id"`
		HTMLLink       string `json:"htmlLink"`
		HangoutLink    string `json:"hangoutLink"`
		ConferenceData struct {
			EntryPoints []struct {
				EntryPointType string `json:"entryPointType"`
				URI            string `json:"uri"`
			} `json:"entryPoints"`
		} `json:"conferenceData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to parse event response", err)
	}

	meetLink := result.HangoutLink
	if meetLink == "" {
		for _, ep := range result.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				meetLink = ep.URI
				break
			}
		}
	}

	return &dto.EventDetails{
		EventID:  result.ID,
		HTMLLink: result.HTMLLink,
		MeetLink: meetLink,
	}, nil
}

// DeleteEvent removes an event when the token owner organized it, otherwise
// marks the attendee as declined.
func (s *CalendarService) DeleteEvent(ctx context.Context, accessToken, calendarEmail, eventID string) error {
	eventURL := fmt.Sprintf("%s/calendars/primary/events/%s", s.apiBase, eventID)

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, eventURL, nil)
	if err != nil {
		return err
	}
	getReq.Header.Set("Authorization", "Bearer "+accessToken)

	getResp, err := s.client.Do(getReq)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to fetch event", err)
	}
	defer getResp.Body.Close()

	if getResp.StatusCode != http.StatusOK {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	var eventData struct {
		Organizer struct {
			Email string `json:"email"`
			Self  bool   `json:"self"`
		} `json:"organizer"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&eventData); err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to parse event", err)
	}

	if eventData.Organizer.Self {
		deleteReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, eventURL, nil)
		if err != nil {
			return err
		}
		deleteReq.Header.Set("Authorization", "Bearer "+accessToken)

		deleteResp, err := s.client.Do(deleteReq)
		if err != nil {
			return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete event", err)
		}
		defer deleteResp.Body.Close()

		if deleteResp.StatusCode != http.StatusNoContent && deleteResp.StatusCode != http.StatusOK {
			return errors.NewAppError(errors.ErrDeleteFailed, "Calendar provider rejected the delete", nil)
		}
		return nil
	}

	// Attendee path: decline instead of delete
	patchPayload := map[string]any{
		"attendees": []map[string]any{
			{"email": calendarEmail, "responseStatus": "declined"},
		},
	}
	body, _ := json.Marshal(patchPayload)

	patchReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, eventURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	patchReq.Header.Set("Authorization", "Bearer "+accessToken)
	patchReq.Header.Set("Content-Type", "application/json")

	patchResp, err := s.client.Do(patchReq)
	if err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to decline event", err)
	}
	defer patchResp.Body.Close()

	if patchResp.StatusCode != http.StatusOK {
		return errors.NewAppError(errors.ErrUpdateFailed, "Calendar provider rejected the decline", nil)
	}
	return nil
}
