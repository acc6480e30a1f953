package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"meetsync/core/entity"
)

// Notification is an in-app notification row. Recipients are addressed by
// email so bookings can notify participants before they ever sign in.
type Notification struct {
	RecipientEmail string `db:"recipient_email" json:"recipient_email"`
	Title          string `db:"title" json:"title"`
	Message        string `db:"message" json:"message"`
	Type           string `db:"type" json:"type"`
	Data           JSONB  `db:"data" json:"data"`
	IsRead         bool   `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
