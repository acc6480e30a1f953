package service

import (
	"context"
	"time"

	"meetsync/core/config"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/scheduling/dto"
)

// CredentialResolver yields a calendar access token for a user identifier.
// It returns ErrUnauthorized when no stored credential exists; the scheduling
// service treats that as "no live data", never as a request failure.
type CredentialResolver interface {
	ResolveCalendarToken(ctx context.Context, identifier string) (string, *errors.AppError)
}

// CalendarGateway is the busy-time and timezone collaborator. Both operations
// degrade instead of failing: timezone lookup always returns a usable zone
// name, and busy lookup errors downgrade the request to provisional mode.
type CalendarGateway interface {
	ResolveTimezoneOrDefault(ctx context.Context, accessToken string, identifier string) string
	GetBusyIntervals(ctx context.Context, accessToken string, identifier string, start, end time.Time) ([]BusyInterval, error)
}

// SchedulingServiceInterface defines the suggest contract
type SchedulingServiceInterface interface {
	Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, *errors.AppError)
}

// SchedulingService resolves credentials, timezones and busy data, then runs
// the pure suggestion engine over them.
type SchedulingService struct {
	resolver CredentialResolver
	calendar CalendarGateway
	engine   *SuggestEngine
	defaults config.SchedulingConfig
}

func NewSchedulingService(resolver CredentialResolver, calendar CalendarGateway, cfg config.SchedulingConfig) SchedulingServiceInterface {
	return &SchedulingService{
		resolver: resolver,
		calendar: calendar,
		engine:   NewSuggestEngine(cfg.Scoring),
		defaults: cfg,
	}
}

// Suggest validates the request, gathers calendar context and returns ranked
// slot suggestions. Upstream failures (missing credentials, busy-fetch
// errors) silently downgrade the result to provisional; only malformed
// parameters produce an error.
func (s *SchedulingService) Suggest(ctx context.Context, req *dto.SuggestRequest) (*dto.SuggestResponse, *errors.AppError) {
	params, appErr := s.buildParams(req)
	if appErr != nil {
		return nil, appErr
	}

	organizerToken := s.resolveToken(ctx, req.OrganizerEmail)
	participantToken := s.resolveToken(ctx, req.ParticipantEmail)

	params.OrganizerTimezone = s.calendar.ResolveTimezoneOrDefault(ctx, organizerToken, req.OrganizerEmail)
	params.ParticipantTimezone = s.calendar.ResolveTimezoneOrDefault(ctx, participantToken, req.ParticipantEmail)

	if organizerToken != "" && participantToken != "" {
		busy, ok := s.fetchBusy(ctx, params, organizerToken, participantToken)
		if ok {
			params.Busy = busy
			params.LiveData = true
		}
	} else {
		logger.Info("SchedulingService:Suggest:Provisional",
			"organizer_resolved", organizerToken != "",
			"participant_resolved", participantToken != "",
		)
	}

	suggestions := s.engine.Suggest(params)

	resp := &dto.SuggestResponse{
		Suggestions:         make([]dto.SuggestionDTO, 0, len(suggestions)),
		Provisional:         !params.LiveData,
		OrganizerTimezone:   params.OrganizerTimezone,
		ParticipantTimezone: params.ParticipantTimezone,
	}
	for _, sg := range suggestions {
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionDTO{
			Start:       sg.Start.UTC().Format(time.RFC3339),
			End:         sg.End.UTC().Format(time.RFC3339),
			Score:       sg.Score,
			Provisional: sg.Provisional,
		})
	}

	return resp, nil
}

func (s *SchedulingService) buildParams(req *dto.SuggestRequest) (SuggestParams, *errors.AppError) {
	if req.OrganizerEmail == "" || req.ParticipantEmail == "" {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "organizer_email and participant_email are required", nil)
	}

	windowStart := time.Now().UTC()
	if req.WindowStart != "" {
		parsed, err := time.Parse(time.RFC3339, req.WindowStart)
		if err != nil {
			return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "window_start must be RFC3339", err)
		}
		windowStart = parsed.UTC()
	}

	windowDays := req.WindowDays
	if windowDays == 0 {
		windowDays = 7
	}
	if windowDays < 0 || windowDays > 28 {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "window_days must be between 1 and 28", nil)
	}
	windowEnd := windowStart.AddDate(0, 0, windowDays)

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 30
	}
	if duration < 0 {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be positive", nil)
	}

	step := req.StepMinutes
	if step == 0 {
		step = s.defaults.StepMinutes
	}
	if step <= 0 {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "step_minutes must be positive", nil)
	}

	startHour := s.defaults.FallbackStartHour
	if req.FallbackStartHour != nil {
		startHour = *req.FallbackStartHour
	}
	endHour := s.defaults.FallbackEndHour
	if req.FallbackEndHour != nil {
		endHour = *req.FallbackEndHour
	}
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "fallback hours must satisfy 0 <= start < end <= 24", nil)
	}

	minNotice := s.defaults.MinNoticeHours
	if req.MinNoticeHours != nil {
		minNotice = *req.MinNoticeHours
	}
	if minNotice < 0 {
		return SuggestParams{}, errors.NewAppError(errors.ErrInvalidInput, "min_notice_hours must not be negative", nil)
	}

	excludeWeekends := s.defaults.ExcludeWeekends
	if req.ExcludeWeekends != nil {
		excludeWeekends = *req.ExcludeWeekends
	}

	return SuggestParams{
		OrganizerID:       req.OrganizerEmail,
		ParticipantID:     req.ParticipantEmail,
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		DurationMinutes:   duration,
		StepMinutes:       step,
		FallbackStartHour: startHour,
		FallbackEndHour:   endHour,
		ExcludeWeekends:   excludeWeekends,
		MinNoticeHours:    minNotice,
	}, nil
}

// resolveToken returns the user's calendar access token, or "" when the user
// has no usable stored credential. Resolution failures are logged and never
// propagated; absence of a token is what switches the engine to provisional.
func (s *SchedulingService) resolveToken(ctx context.Context, identifier string) string {
	token, appErr := s.resolver.ResolveCalendarToken(ctx, identifier)
	if appErr != nil {
		logger.Warn("SchedulingService:resolveToken:Unresolved", "identifier", identifier, "code", appErr.Code)
		return ""
	}
	return token
}

// fetchBusy loads busy intervals for both participants. Any failure degrades
// the whole request to provisional instead of aborting it; a single upstream
// failure per call is tolerated via fallback, never retried.
func (s *SchedulingService) fetchBusy(ctx context.Context, p SuggestParams, organizerToken, participantToken string) (map[string][]BusyInterval, bool) {
	organizerBusy, err := s.calendar.GetBusyIntervals(ctx, organizerToken, p.OrganizerID, p.WindowStart, p.WindowEnd)
	if err != nil {
		logger.Warn("SchedulingService:fetchBusy:OrganizerDegraded", "identifier", p.OrganizerID, "error", err)
		return nil, false
	}

	participantBusy, err := s.calendar.GetBusyIntervals(ctx, participantToken, p.ParticipantID, p.WindowStart, p.WindowEnd)
	if err != nil {
		logger.Warn("SchedulingService:fetchBusy:ParticipantDegraded", "identifier", p.ParticipantID, "error", err)
		return nil, false
	}

	return map[string][]BusyInterval{
		p.OrganizerID:   organizerBusy,
		p.ParticipantID: participantBusy,
	}, true
}
