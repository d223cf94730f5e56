package repository

import "github.com/tu-usuario/pos-inventario/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByUsername(username string) (*entity.User, error)
}
