package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate references the stored artifact for one completed course.
// At most one exists per (user, course).
type Certificate struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

type CertificateView struct {
	Certificate Certificate `json:"certificate"`
	DownloadURL string      `json:"download_url"`
}
