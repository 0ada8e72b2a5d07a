package models

type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"` // Not exposed in API responses
	IsAdmin        bool   `json:"is_admin"`
}
