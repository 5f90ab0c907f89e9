package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS hostels (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`).Error)
	require.NoError(t, db.Exec(`
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
);`).Error)
	require.NoError(t, db.Exec(`
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
);`).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM complaints")
		db.Exec("DELETE FROM users")
		db.Exec("DELETE FROM hostels")
	})
	return db
}

type reportFixture struct {
	HostelID        uuid.UUID
	ReporterID      uuid.UUID
	Area            string
	ResolutionHours float64
	Breached        bool
}

func mustSeedComplaint(t *testing.T, db *gorm.DB, fx reportFixture) {
	t.Helper()
	now := time.Now().UTC()
	complaint := &models.Complaint{
		ID:          uuid.New(),
		Title:       "Report fixture",
		Description: "fixture",
		Category:    "misc",
		Area:        fx.Area,
		Status:      enums.ComplaintStatusOpen,
		ReporterID:  fx.ReporterID,
		HostelID:    fx.HostelID,
		SLAHours:    24,
		Breached:    fx.Breached,
		CreatedAt:   now.Add(-48 * time.Hour),
	}
	if fx.ResolutionHours > 0 {
		resolvedAt := complaint.CreatedAt.Add(time.Duration(fx.ResolutionHours * float64(time.Hour)))
		complaint.Status = enums.ComplaintStatusResolved
		complaint.ResolvedAt = &resolvedAt
	}
	require.NoError(t, db.Create(complaint).Error)
}

func seedReporter(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@mnnit.ac.in",
		PasswordHash: "hash",
		Name:         "Reporter",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedHostel(t *testing.T, db *gorm.DB) *models.Hostel {
	t.Helper()
	hostel := &models.Hostel{ID: uuid.New(), Name: "Hostel " + uuid.NewString()}
	require.NoError(t, db.Create(hostel).Error)
	return hostel
}

func TestPublicStats(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	hostel := seedHostel(t, db)
	reporter := seedReporter(t, db)

	// Three resolved in 2h, 4h, 6h; two unresolved.
	for _, hours := range []float64{2, 4, 6} {
		mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Block A", ResolutionHours: hours})
	}
	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Block B"})
	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Block B"})

	stats, err := svc.PublicStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(3), stats.Resolved)
	assert.Equal(t, int64(2), stats.Pending)
	assert.InDelta(t, 4.00, stats.AvgResolutionHours, 0.001)
}

func TestPublicStatsEmpty(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	stats, err := svc.PublicStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.AvgResolutionHours)
}

func TestSLAStatsScopedForAdmin(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	hostelA := seedHostel(t, db)
	hostelB := seedHostel(t, db)
	reporter := seedReporter(t, db)

	mustSeedComplaint(t, db, reportFixture{HostelID: hostelA.ID, ReporterID: reporter.ID, Area: "A", ResolutionHours: 3})
	mustSeedComplaint(t, db, reportFixture{HostelID: hostelA.ID, ReporterID: reporter.ID, Area: "A", Breached: true})
	mustSeedComplaint(t, db, reportFixture{HostelID: hostelB.ID, ReporterID: reporter.ID, Area: "B", ResolutionHours: 9})

	admin := authz.Actor{UserID: uuid.New(), Role: enums.RoleAdmin, HostelID: &hostelA.ID}
	scoped, err := svc.SLAStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), scoped.Total)
	assert.Equal(t, int64(1), scoped.Resolved)
	assert.Equal(t, int64(1), scoped.Breached)
	assert.Equal(t, int64(0), scoped.ResolvedWithinSLA)
	assert.InDelta(t, 3.00, scoped.AvgResolutionHours, 0.001)

	chief := authz.Actor{UserID: uuid.New(), Role: enums.RoleChiefAdmin}
	all, err := svc.SLAStats(context.Background(), chief)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, int64(2), all.Resolved)
	assert.InDelta(t, 6.00, all.AvgResolutionHours, 0.001)
}

func TestReportsDeniedForCitizenAndStaff(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	for _, role := range []enums.Role{enums.RoleCitizen, enums.RoleStaff} {
		actor := authz.Actor{UserID: uuid.New(), Role: role}

		_, err := svc.SLAStats(ctx, actor)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

		_, err = svc.Heatmap(ctx, actor)
		typed = pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

		_, err = svc.ExportCSV(ctx, actor)
		typed = pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	}
}

func TestHeatmapGroupsByArea(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	hostel := seedHostel(t, db)
	reporter := seedReporter(t, db)

	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Washroom"})
	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Washroom"})
	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Mess"})

	chief := authz.Actor{UserID: uuid.New(), Role: enums.RoleChiefAdmin}
	entries, err := svc.Heatmap(context.Background(), chief)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Washroom", entries[0].Area)
	assert.Equal(t, int64(2), entries[0].Count)
	assert.Equal(t, "Mess", entries[1].Area)
	assert.Equal(t, int64(1), entries[1].Count)
}

func TestExportCSV(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	hostel := seedHostel(t, db)
	reporter := seedReporter(t, db)
	mustSeedComplaint(t, db, reportFixture{HostelID: hostel.ID, ReporterID: reporter.ID, Area: "Mess", ResolutionHours: 2})

	chief := authz.Actor{UserID: uuid.New(), Role: enums.RoleChiefAdmin}
	data, err := svc.ExportCSV(context.Background(), chief)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, csvHeader, records[0])
	row := records[1]
	assert.Equal(t, "Report fixture", row[1])
	assert.Equal(t, "RESOLVED", row[5])
	assert.Equal(t, reporter.Email, row[6])
	assert.Equal(t, hostel.Name, row[7])
}
