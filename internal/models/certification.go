package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusHidden = "hidden"
	StatusPublic = "public"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Certification is one catalog entry. Entries backed by a guided course
// carry a non-nil CourseID.
type Certification struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	Title         string     `json:"title"`
	Provider      string     `json:"provider"`
	Description   string     `json:"description"`
	ExternalURL   string     `json:"external_url"`
	LogoObjectKey string     `json:"logo_object_key"`
	Status        string     `json:"status"`
	CourseID      *uuid.UUID `json:"course_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CertificationPreview struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Provider     string    `json:"provider"`
	Description  string    `json:"description"`
	CategoryName string    `json:"category_name"`
	LogoURL      string    `json:"logo_url"`
	HasCourse    bool      `json:"has_course"`
}

type Favorite struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CertificationID uuid.UUID `json:"certification_id"`
	CreatedAt       time.Time `json:"created_at"`
}
