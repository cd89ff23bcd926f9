package alerts

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// NotificationUseCase expone la bandeja de notificaciones a las capas de
// presentación: listar, marcar leída(s) y borrar. Marcar leída es lo que
// "resuelve" una alerta y habilita que el motor emita otra del mismo tipo.
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(notifRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// List lista notificaciones, más recientes primero. onlyUnread filtra las no leídas.
func (uc *NotificationUseCase) List(ctx context.Context, onlyUnread bool, page dto.PageRequest) ([]dto.NotificationResponse, error) {
	page.DefaultPage()
	list, err := uc.notifRepo.List(onlyUnread, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationResponse(n))
	}
	return out, nil
}

// MarkRead marca una notificación como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.notifRepo.MarkRead(id)
}

// MarkAllRead marca todas como leídas y devuelve cuántas cambiaron.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) (int64, error) {
	return uc.notifRepo.MarkAllRead()
}

// Delete elimina una notificación.
func (uc *NotificationUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.notifRepo.Delete(id)
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Priority:  n.Priority,
		ProductID: n.ProductID,
		Message:   n.Message,
		Metadata:  n.Metadata,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
