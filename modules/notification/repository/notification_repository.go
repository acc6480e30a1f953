package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/modules/notification/entity"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByEmail(ctx context.Context, email string, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, email string, ids []string) error
	MarkAllAsRead(ctx context.Context, email string) error
	CountUnread(ctx context.Context, email string) (int, error)
}

type NotificationRepository struct {
	db database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (recipient_email, title, message, type, data, is_read, created_at, updated_at)
		VALUES (:recipient_email, :title, :message, :type, :data, :is_read, :created_at, :updated_at)
		RETURNING id
	`
	rows, err := r.db.NamedQueryContext(ctx, query, notification)
	if err != nil {
		logger.Error("NotificationRepository:Create:Error", "error", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&notification.ID)
	}
	return nil
}

func (r *NotificationRepository) GetByEmail(ctx context.Context, email string, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	baseQuery := `FROM notifications WHERE recipient_email = $1`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, email); err != nil {
		logger.Error("NotificationRepository:GetByEmail:Count:Error", "error", err)
		return nil, err
	}

	query := `
		SELECT * ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var notifications []entity.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, email, params.PageSize, params.Offset()); err != nil {
		logger.Error("NotificationRepository:GetByEmail:Select:Error", "error", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, email string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = true WHERE recipient_email = ? AND id IN (?)`, email, ids)
	if err != nil {
		return err
	}

	query = r.db.SQLx().Rebind(query)
	if err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, email string) error {
	query := `UPDATE notifications SET is_read = true WHERE recipient_email = $1`
	if err := r.db.ExecContext(ctx, query, email); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, email string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_email = $1 AND is_read = false`
	if err := r.db.GetContext(ctx, &count, query, email); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error", "error", err)
		return 0, err
	}
	return count, nil
}
