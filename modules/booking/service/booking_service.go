package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/core/storage"
	"meetsync/core/utils"
	authService "meetsync/modules/auth/service"
	"meetsync/modules/booking/dto"
	"meetsync/modules/booking/entity"
	"meetsync/modules/booking/repository"
	calendarDto "meetsync/modules/calendar/dto"
	calendarService "meetsync/modules/calendar/service"
	invitDto "meetsync/modules/invitation/dto"
	invitService "meetsync/modules/invitation/service"
	notifDto "meetsync/modules/notification/dto"
	notifService "meetsync/modules/notification/service"
)

type BookingServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError)
	List(ctx context.Context, email string, queryParams params.QueryParams) (*entity.PaginatedBookingEntity, error)
	Cancel(ctx context.Context, reference, callerEmail string) *errors.AppError
}

// BookingService turns an agreed slot into a calendar event, a booking row,
// an ICS export and a participant invitation. Only the calendar insert is
// load-bearing; everything after the booking row is best effort.
type BookingService struct {
	repo         repository.BookingRepositoryInterface
	auth         authService.AuthServiceInterface
	calendar     calendarService.CalendarServiceInterface
	uploader     storage.Uploader
	invitService invitService.InvitationServiceInterface
	notifService notifService.NotificationServiceInterface
}

func NewBookingService(
	repo repository.BookingRepositoryInterface,
	auth authService.AuthServiceInterface,
	calendar calendarService.CalendarServiceInterface,
	uploader storage.Uploader,
	invit invitService.InvitationServiceInterface,
	notif notifService.NotificationServiceInterface,
) BookingServiceInterface {
	return &BookingService{
		repo:         repo,
		auth:         auth,
		calendar:     calendar,
		uploader:     uploader,
		invitService: invit,
		notifService: notif,
	}
}

// Create books a slot. Unlike suggestion, booking cannot degrade: a missing
// organizer credential is a hard unauthorized error.
func (s *BookingService) Create(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError) {
	start, end, appErr := s.validate(req)
	if appErr != nil {
		return nil, appErr
	}

	token, appErr := s.auth.ResolveCalendarToken(ctx, req.OrganizerEmail)
	if appErr != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Organizer has no connected calendar", appErr)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.calendar.ResolveTimezoneOrDefault(ctx, token, req.OrganizerEmail)
	}

	event, err := s.calendar.CreateEvent(ctx, token, &calendarDto.CreateEventParams{
		Title:            req.Title,
		Description:      req.Description,
		StartTime:        start.Format(time.RFC3339),
		EndTime:          end.Format(time.RFC3339),
		Timezone:         timezone,
		Attendees:        []string{req.OrganizerEmail, req.ParticipantEmail},
		WithConferencing: true,
	})
	if err != nil {
		logger.Error("BookingService:Create:CalendarEvent:Error", "organizer", req.OrganizerEmail, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create calendar event", err)
	}

	booking := &entity.Booking{
		Reference:        s.newReference(req.Title),
		OrganizerEmail:   req.OrganizerEmail,
		ParticipantEmail: req.ParticipantEmail,
		Title:            req.Title,
		StartTime:        start,
		EndTime:          end,
		Timezone:         timezone,
		Status:           entity.BookingStatusConfirmed,
	}
	if req.Description != "" {
		booking.Description = &req.Description
	}
	if event.EventID != "" {
		booking.CalendarEventID = &event.EventID
	}
	if event.MeetLink != "" {
		booking.MeetLink = &event.MeetLink
	}

	s.exportICS(ctx, booking)

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save booking", err)
	}

	s.inviteParticipant(ctx, booking)

	return toResponse(booking), nil
}

// List returns the caller's bookings, newest start first
func (s *BookingService) List(ctx context.Context, email string, queryParams params.QueryParams) (*entity.PaginatedBookingEntity, error) {
	return s.repo.ListByEmail(ctx, email, queryParams)
}

// Cancel removes the calendar event and marks the booking cancelled. Only the
// organizer can cancel; participants decline their invitation instead.
func (s *BookingService) Cancel(ctx context.Context, reference, callerEmail string) *errors.AppError {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load booking", err)
	}
	if booking == nil {
		return errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	if booking.OrganizerEmail != callerEmail {
		return errors.NewAppError(errors.ErrForbidden, "Only the organizer can cancel a booking", nil)
	}
	if booking.Status == entity.BookingStatusCancelled {
		return errors.NewAppError(errors.ErrAlreadyExists, "Booking already cancelled", nil)
	}

	if booking.CalendarEventID != nil {
		token, appErr := s.auth.ResolveCalendarToken(ctx, booking.OrganizerEmail)
		if appErr != nil {
			return errors.NewAppError(errors.ErrUnauthorized, "Organizer has no connected calendar", appErr)
		}
		if err := s.calendar.DeleteEvent(ctx, token, booking.OrganizerEmail, *booking.CalendarEventID); err != nil {
			// The booking record still gets cancelled; the event may already be gone
			logger.Warn("BookingService:Cancel:DeleteEvent:Error", "reference", reference, "error", err)
		}
	}

	if err := s.repo.UpdateStatus(ctx, reference, entity.BookingStatusCancelled); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to cancel booking", err)
	}

	notification := &notifDto.CreateNotificationRequest{
		RecipientEmail: booking.ParticipantEmail,
		Title:          "Meeting cancelled",
		Message:        fmt.Sprintf("%s cancelled the meeting: %s", booking.OrganizerEmail, booking.Title),
		Type:           "booking_cancelled",
		Data:           map[string]any{"booking_reference": booking.Reference},
	}
	if err := s.notifService.Notify(ctx, notification); err != nil {
		logger.Error("BookingService:Cancel:Notify:Error", "error", err)
	}

	return nil
}

func (s *BookingService) validate(req *dto.CreateBookingRequest) (time.Time, time.Time, *errors.AppError) {
	if req.OrganizerEmail == "" || req.ParticipantEmail == "" {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "organizer_email and participant_email are required", nil)
	}
	if req.OrganizerEmail == req.ParticipantEmail {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "organizer and participant must differ", nil)
	}
	if req.Title == "" {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.DurationMinutes <= 0 {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be positive", nil)
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "start must be RFC3339", err)
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "timezone must be a valid IANA zone", err)
		}
	}

	start = start.UTC()
	return start, start.Add(time.Duration(req.DurationMinutes) * time.Minute), nil
}

func (s *BookingService) newReference(title string) string {
	return slug.Make(title) + "-" + utils.GenerateID()
}

// exportICS uploads the booking's calendar file. Upload failures leave the
// booking without an export link, they never fail the booking.
func (s *BookingService) exportICS(ctx context.Context, booking *entity.Booking) {
	if s.uploader == nil {
		return
	}

	payload := BuildICS(booking, time.Now())
	url, err := s.uploader.Upload(ctx, icsObjectKey(booking.Reference), "text/calendar", payload)
	if err != nil {
		logger.Warn("BookingService:exportICS:UploadError", "reference", booking.Reference, "error", err)
		return
	}
	booking.ICSUrl = &url
}

func (s *BookingService) inviteParticipant(ctx context.Context, booking *entity.Booking) {
	meetLink := ""
	if booking.MeetLink != nil {
		meetLink = *booking.MeetLink
	}

	err := s.invitService.CreateInvitation(ctx, &invitDto.CreateInvitationRequest{
		BookingReference: booking.Reference,
		OrganizerEmail:   booking.OrganizerEmail,
		InviteeEmail:     booking.ParticipantEmail,
		Title:            booking.Title,
		StartTime:        booking.StartTime.UTC().Format(time.RFC3339),
		EndTime:          booking.EndTime.UTC().Format(time.RFC3339),
		Timezone:         booking.Timezone,
		MeetLink:         meetLink,
	})
	if err != nil {
		logger.Error("BookingService:inviteParticipant:Error", "reference", booking.Reference, "error", err)
	}
}

func toResponse(booking *entity.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		Reference:        booking.Reference,
		OrganizerEmail:   booking.OrganizerEmail,
		ParticipantEmail: booking.ParticipantEmail,
		Title:            booking.Title,
		Start:            booking.StartTime.UTC().Format(time.RFC3339),
		End:              booking.EndTime.UTC().Format(time.RFC3339),
		Timezone:         booking.Timezone,
		Status:           string(booking.Status),
		CreatedAt:        booking.CreatedAt.Format(time.RFC3339),
	}
	if booking.Description != nil {
		resp.Description = *booking.Description
	}
	if booking.MeetLink != nil {
		resp.MeetLink = *booking.MeetLink
	}
	if booking.ICSUrl != nil {
		resp.ICSUrl = *booking.ICSUrl
	}
	return resp
}
