package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"meetsync/core/constants"
	coreEntity "meetsync/core/entity"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/core/queue"
	"meetsync/modules/notification/dto"
	"meetsync/modules/notification/entity"
	"meetsync/modules/notification/repository"
)

type NotificationServiceInterface interface {
	Notify(ctx context.Context, req *dto.CreateNotificationRequest) error
	Create(ctx context.Context, req *dto.CreateNotificationRequest) error
	GetMyNotifications(ctx context.Context, email string, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, email string, ids []string) error
	MarkAllAsRead(ctx context.Context, email string) error
	CountUnread(ctx context.Context, email string) (int, error)
}

type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	queue *queue.Queue
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, q *queue.Queue) *NotificationService {
	return &NotificationService{repo: repo, queue: q}
}

// Notify dispatches the notification through the task queue. When no queue is
// configured it falls back to a synchronous insert.
func (s *NotificationService) Notify(ctx context.Context, req *dto.CreateNotificationRequest) error {
	if s.queue == nil {
		return s.Create(ctx, req)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(constants.TaskNotificationCreate, payload)
}

// Create inserts the notification row immediately
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		RecipientEmail: req.RecipientEmail,
		Title:          req.Title,
		Message:        req.Message,
		Type:           req.Type,
		Data:           entity.JSONB(req.Data),
		IsRead:         false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

// HandleCreateTask consumes notification:create tasks from the worker
func (s *NotificationService) HandleCreateTask(ctx context.Context, task *asynq.Task) error {
	var req dto.CreateNotificationRequest
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		logger.Error("NotificationService:HandleCreateTask:BadPayload", "error", err)
		return err
	}

	if err := s.Create(ctx, &req); err != nil {
		logger.Error("NotificationService:HandleCreateTask:CreateError", "recipient", req.RecipientEmail, "error", err)
		return err
	}
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, email string, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByEmail(ctx, email, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, email string, ids []string) error {
	return s.repo.MarkAsRead(ctx, email, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, email string) error {
	return s.repo.MarkAllAsRead(ctx, email)
}

func (s *NotificationService) CountUnread(ctx context.Context, email string) (int, error) {
	return s.repo.CountUnread(ctx, email)
}
