package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"

	"meetsync/core/constants"
	"meetsync/core/params"
	"meetsync/modules/notification/dto"
	"meetsync/modules/notification/entity"
)

type fakeNotificationRepo struct {
	created []*entity.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) GetByEmail(_ context.Context, email string, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	var items []entity.Notification
	for _, n := range r.created {
		if n.RecipientEmail == email {
			items = append(items, *n)
		}
	}
	return &entity.PaginatedNotificationEntity{
		Items:      items,
		TotalItems: len(items),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, email string, ids []string) error {
	for _, n := range r.created {
		if n.RecipientEmail != email {
			continue
		}
		for _, id := range ids {
			if n.ID.String() == id {
				n.IsRead = true
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, email string) error {
	for _, n := range r.created {
		if n.RecipientEmail == email {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, email string) (int, error) {
	count := 0
	for _, n := range r.created {
		if n.RecipientEmail == email && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func notificationRequest() *dto.CreateNotificationRequest {
	return &dto.CreateNotificationRequest{
		RecipientEmail: "part@example.com",
		Title:          "New meeting invitation",
		Message:        "org@example.com invited you to: Weekly sync",
		Type:           "invitation",
		Data:           map[string]any{"booking_reference": "weekly-sync-abc123"},
	}
}

func TestNotifyWithoutQueueInsertsDirectly(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	if err := svc.Notify(context.Background(), notificationRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.RecipientEmail != "part@example.com" {
		t.Errorf("recipient: %q", stored.RecipientEmail)
	}
	if stored.IsRead {
		t.Error("new notification must start unread")
	}
	if stored.Data["booking_reference"] != "weekly-sync-abc123" {
		t.Errorf("data payload: %v", stored.Data)
	}
}

func TestHandleCreateTask(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	payload, err := json.Marshal(notificationRequest())
	if err != nil {
		t.Fatal(err)
	}
	task := asynq.NewTask(constants.TaskNotificationCreate, payload)

	if err := svc.HandleCreateTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(repo.created))
	}
	if repo.created[0].Type != "invitation" {
		t.Errorf("type: %q", repo.created[0].Type)
	}
}

func TestHandleCreateTaskRejectsBadPayload(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	task := asynq.NewTask(constants.TaskNotificationCreate, []byte("{not json"))
	if err := svc.HandleCreateTask(context.Background(), task); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if len(repo.created) != 0 {
		t.Error("malformed payload must not insert a notification")
	}
}

func TestUnreadLifecycle(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	for i := 0; i < 3; i++ {
		if err := svc.Create(context.Background(), notificationRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count, err := svc.CountUnread(context.Background(), "part@example.com")
	if err != nil || count != 3 {
		t.Fatalf("unread count: %d, err: %v", count, err)
	}

	if err := svc.MarkAllAsRead(context.Background(), "part@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err = svc.CountUnread(context.Background(), "part@example.com")
	if err != nil || count != 0 {
		t.Fatalf("unread count after mark all: %d, err: %v", count, err)
	}

	result, err := svc.GetMyNotifications(context.Background(), "part@example.com", params.QueryParams{PageNumber: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalItems != 3 {
		t.Errorf("stored notifications: %d", result.TotalItems)
	}
}
