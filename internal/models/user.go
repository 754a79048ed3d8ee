package models

import (
	"time"

	"walletly/internal/store"
)

// User field names as stored in the users collection.
const (
	FieldUserName     = "name"
	FieldUserEmail    = "email"
	FieldUserImage    = "image"
	FieldPasswordHash = "passwordHash"
	FieldUserCreated  = "created"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Image        string    `json:"image,omitempty"`
	PasswordHash string    `json:"-"`
	Created      time.Time `json:"created"`
}

func UserFromDocument(doc store.Document) User {
	return User{
		ID:           doc.ID,
		Name:         stringAt(doc.Fields, FieldUserName),
		Email:        stringAt(doc.Fields, FieldUserEmail),
		Image:        stringAt(doc.Fields, FieldUserImage),
		PasswordHash: stringAt(doc.Fields, FieldPasswordHash),
		Created:      timeAt(doc.Fields, FieldUserCreated),
	}
}
