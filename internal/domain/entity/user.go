package entity

import "time"

// Roles de usuario del punto de venta.
const (
	RoleAdmin     = "admin"
	RoleCajero    = "cajero"
	RoleBodeguero = "bodeguero"
)

// User representa un usuario de la aplicación (administrador, cajero o bodeguero).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | cajero | bodeguero
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
