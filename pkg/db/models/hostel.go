package models

import "github.com/google/uuid"

// Hostel is static reference data seeded by migration.
type Hostel struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}
