package model

import "time"

// Attachment is a file stored in object storage and linked to a Note.
// StoragePath is the object key inside the configured bucket; it is never
// exposed to clients directly, downloads go through presigned URLs.
type Attachment struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"noteId"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
