package repository

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia de notificaciones.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	// ExistsUnread indica si ya hay una notificación no leída con el mismo par
	// (productID, type) — el contrato de dedup del motor de alertas.
	ExistsUnread(productID, ntype string) (bool, error)
	List(onlyUnread bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string) error
	MarkAllRead() (int64, error)
	Delete(id string) error
}
