package upload

import (
	"time"

	"github.com/kislikjeka/tradebook/internal/ingest"
)

// Batch is a stored upload preview awaiting user approval
type Batch struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	FileName  string              `json:"fileName"`
	Rows      []ingest.PreviewRow `json:"rows"`
	Warnings  []ingest.Warning    `json:"warnings"`
	CreatedAt time.Time           `json:"createdAt"`
	ExpiresAt time.Time           `json:"expiresAt"`
}
