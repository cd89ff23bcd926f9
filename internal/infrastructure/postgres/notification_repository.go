package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, type, priority, COALESCE(product_id, ''), message,
	COALESCE(metadata, 'null'::jsonb), is_read, created_at`

// Create inserta una notificación.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notifications (id, type, priority, product_id, message, metadata, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	productID := (*string)(nil)
	if n.ProductID != "" {
		productID = &n.ProductID
	}
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.Type, n.Priority, productID, n.Message, n.Metadata, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ExistsUnread indica si ya hay una notificación no leída del par (producto, tipo).
func (r *NotificationRepo) ExistsUnread(productID, ntype string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM notifications WHERE product_id = $1 AND type = $2 AND NOT is_read
	)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, productID, ntype).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists unread: %w", err)
	}
	return exists, nil
}

// List lista notificaciones, más recientes primero. Con onlyUnread filtra las no leídas.
func (r *NotificationRepo) List(onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if onlyUnread {
		query += ` WHERE NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead marca una notificación como leída, liberando su par (producto, tipo)
// para futuras alertas del motor.
func (r *NotificationRepo) MarkRead(id string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las no leídas y devuelve cuántas afectó.
func (r *NotificationRepo) MarkAllRead() (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE NOT is_read`
	tag, err := r.q.Exec(context.Background(), query)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete elimina una notificación.
func (r *NotificationRepo) Delete(id string) error {
	query := `DELETE FROM notifications WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(&n.ID, &n.Type, &n.Priority, &n.ProductID, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
