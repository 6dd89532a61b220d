package models

import "time"

// User is a registered account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	IsAvatarImageSet bool      `json:"isAvatarImageSet"`
	AvatarImage      string    `json:"avatarImage"`
	CreatedAt        time.Time `json:"createdAt"`
}
