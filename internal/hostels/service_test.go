package hostels

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

func setupHostelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	hostels := `
CREATE TABLE IF NOT EXISTS hostels (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'citizen',
  hostel_id TEXT,
  staff_request INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	complaints := `
CREATE TABLE IF NOT EXISTS complaints (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  area TEXT NOT NULL,
  photo_url TEXT,
  status TEXT NOT NULL DEFAULT 'OPEN',
  reporter_id TEXT NOT NULL,
  assigned_to_id TEXT,
  hostel_id TEXT NOT NULL,
  sla_hours INTEGER NOT NULL DEFAULT 24,
  resolved_at DATETIME,
  breached INTEGER NOT NULL DEFAULT 0,
  escalated INTEGER NOT NULL DEFAULT 0,
  escalated_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(hostels).Error)
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(complaints).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM complaints")
		db.Exec("DELETE FROM users")
		db.Exec("DELETE FROM hostels")
	})
	return db
}

func mustHostel(t *testing.T, db *gorm.DB, name string) *models.Hostel {
	t.Helper()
	hostel := &models.Hostel{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(hostel).Error)
	return hostel
}

func mustComplaintIn(t *testing.T, db *gorm.DB, hostelID uuid.UUID, createdAt time.Time) *models.Complaint {
	t.Helper()
	reporter := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@mnnit.ac.in",
		PasswordHash: "hash",
		Name:         "Reporter",
		Role:         enums.RoleCitizen,
	}
	require.NoError(t, db.Create(reporter).Error)

	complaint := &models.Complaint{
		ID:          uuid.New(),
		Title:       "Water cooler down",
		Description: "The cooler on the ground floor stopped working.",
		Category:    "electrical",
		Area:        "Ground Floor",
		Status:      enums.ComplaintStatusOpen,
		ReporterID:  reporter.ID,
		HostelID:    hostelID,
		SLAHours:    24,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(complaint).Error)
	return complaint
}

func TestListOrdersByName(t *testing.T) {
	db := setupHostelsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	mustHostel(t, db, "Tilak Hostel")
	mustHostel(t, db, "Patel Hostel")

	hostels, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, hostels, 2)
	assert.Equal(t, "Patel Hostel", hostels[0].Name)
	assert.Equal(t, "Tilak Hostel", hostels[1].Name)
}

func TestGetUnknownHostelNotFound(t *testing.T) {
	db := setupHostelsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestComplaintsScopedToHostel(t *testing.T) {
	db := setupHostelsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	now := time.Now().UTC()
	hostel := mustHostel(t, db, "Tandon Hostel")
	other := mustHostel(t, db, "Malviya Hostel")

	older := mustComplaintIn(t, db, hostel.ID, now.Add(-2*time.Hour))
	newer := mustComplaintIn(t, db, hostel.ID, now.Add(-1*time.Hour))
	mustComplaintIn(t, db, other.ID, now)

	complaints, err := svc.Complaints(context.Background(), hostel.ID)
	require.NoError(t, err)
	require.Len(t, complaints, 2)
	assert.Equal(t, newer.ID, complaints[0].ID)
	assert.Equal(t, older.ID, complaints[1].ID)
	require.NotNil(t, complaints[0].Reporter)

	// Unknown hostel is an error, not an empty page.
	_, err = svc.Complaints(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
