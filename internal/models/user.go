package models

import "time"

// User is an application account identified by email. The password hash is
// never serialized into API responses.
type User struct {
	ID           int64     `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}
