package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"user_id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username     string    `json:"username" bson:"username" validate:"required,min=2,max=80"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	CreatedAt    time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}
