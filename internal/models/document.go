package models

import "time"

// Document is one uploaded file's metadata row. Filename is the name the
// uploader supplied, verbatim; Path is where the bytes were written. Re-uploads
// of the same filename create a new row each time, so duplicates are expected.
type Document struct {
	ID        int64     `bson:"_id" json:"id"`
	UserID    int64     `bson:"userId" json:"user_id"`
	Filename  string    `bson:"filename" json:"filename"`
	Path      string    `bson:"path" json:"path"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
