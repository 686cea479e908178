package model

import "time"

// Admin is a credential record allowed to manage the catalog
type Admin struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;type:varchar(255);not null"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the part of an admin that may leave the service
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Public strips the password hash
func (a *Admin) Public() PublicUser {
	return PublicUser{ID: a.ID, Username: a.Username, IsAdmin: a.IsAdmin}
}
