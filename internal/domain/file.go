package domain

import "time"

// FileUpload is attachment metadata. The bytes live in object storage under
// ObjectKey; BoardRefID ties the file to a board posting.
type FileUpload struct {
	FileID       string    `json:"id" dynamodbav:"file_id"`
	BoardRefID   string    `json:"board_ref_id" dynamodbav:"board_ref_id"`
	ObjectKey    string    `json:"-" dynamodbav:"object_key"`
	OriginalName string    `json:"original_name" dynamodbav:"original_name"`
	Size         int64     `json:"size" dynamodbav:"size"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}
