package domain

import "time"

// User models an administrator account stored in the "user" table.
type User struct {
	ID           string
	UserName     *string
	PasswordHash string
	Avatar       *string
	Email        *string
	Role         *string
	Status       Status
	CreateTime   time.Time
}

// SafeUser is the user projection that may leave the server. It never carries
// the password hash.
type SafeUser struct {
	ID         string    `json:"id"`
	UserName   *string   `json:"userName"`
	Email      *string   `json:"email"`
	Role       *string   `json:"role"`
	Avatar     *string   `json:"avatar"`
	Status     Status    `json:"status"`
	CreateTime time.Time `json:"createTime"`
}

// Safe strips the password hash.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		Role:       u.Role,
		Avatar:     u.Avatar,
		Status:     u.Status,
		CreateTime: u.CreateTime,
	}
}

// Active reports whether the account may log in.
func (u *User) Active() bool {
	return u.Status == StatusNormal
}
