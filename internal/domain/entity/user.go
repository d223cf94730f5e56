package entity

import "time"

// User usuario del sistema (login del punto de venta).
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
