package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	pkgauth "github.com/hosteldesk/hosteldesk-backend/pkg/auth"
	"github.com/hosteldesk/hosteldesk-backend/pkg/config"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

type fakeNotifier struct {
	accounts []uuid.UUID
}

func (f *fakeNotifier) ComplaintCreated(context.Context, *models.Complaint, *models.User) {}
func (f *fakeNotifier) ComplaintAssigned(context.Context, *models.Complaint, *models.User, *models.User, bool) {
}
func (f *fakeNotifier) ComplaintResolved(context.Context, *models.Complaint, *models.User)  {}
func (f *fakeNotifier) ComplaintEscalated(context.Context, *models.Complaint, *models.User) {}
func (f *fakeNotifier) StaffPromoted(context.Context, *models.User)                         {}
func (f *fakeNotifier) StaffRejected(context.Context, *models.User)                         {}
func (f *fakeNotifier) SLAReminder(context.Context, *models.Complaint, *models.User)        {}

func (f *fakeNotifier) AccountCreated(_ context.Context, user *models.User) {
	f.accounts = append(f.accounts, user.ID)
}

var _ notifications.Notifier = (*fakeNotifier)(nil)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "hosteldesk-test", ExpirationMinutes: 15}
}

func testRegistrationConfig() config.RegistrationConfig {
	return config.RegistrationConfig{
		AllowedEmailDomain: "mnnit.ac.in",
		AdminCode:          "admin-code",
		ChiefAdminCode:     "chief-code",
		MaxAdminsPerHostel: 3,
	}
}

func setupAuthTest(t *testing.T) (Service, *db.Client, *fakeNotifier) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	require.NoError(t, err)

	conn := client.DB()
	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS hostels (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`).Error)
	require.NoError(t, conn.Exec(`
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

	t.Cleanup(func() {
		conn.Exec("DELETE FROM users")
		conn.Exec("DELETE FROM hostels")
	})

	notifier := &fakeNotifier{}
	svc, err := NewService(ServiceParams{
		DB:           client,
		Notifier:     notifier,
		JWTConfig:    testJWTConfig(),
		PasswordCfg:  config.PasswordConfig{},
		Registration: testRegistrationConfig(),
	})
	require.NoError(t, err)
	return svc, client, notifier
}

func mustCreateHostel(t *testing.T, client *db.Client) *models.Hostel {
	t.Helper()
	hostel := &models.Hostel{ID: uuid.New(), Name: "Hostel " + uuid.NewString()}
	require.NoError(t, client.DB().Create(hostel).Error)
	return hostel
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestRegisterCitizen(t *testing.T) {
	svc, _, notifier := setupAuthTest(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Student",
		Email:    "Student@MNNIT.AC.IN",
		Password: "correct horse battery",
		Role:     "citizen",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RoleCitizen, resp.User.Role)
	assert.Equal(t, "student@mnnit.ac.in", resp.User.Email)
	assert.False(t, resp.User.StaffRequest)
	assert.Nil(t, resp.User.HostelID)
	require.Len(t, notifier.accounts, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, enums.RoleCitizen, claims.Role)
}

func TestRegisterCitizenForeignDomain(t *testing.T) {
	svc, _, _ := setupAuthTest(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Stranger",
		Email:    "stranger@gmail.com",
		Password: "correct horse battery",
		Role:     "citizen",
	})
	expectCode(t, err, pkgerrors.CodePolicy)
}

func TestRegisterStaffStaysPending(t *testing.T) {
	svc, client, _ := setupAuthTest(t)
	hostel := mustCreateHostel(t, client)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Applicant",
		Email:    "applicant@mnnit.ac.in",
		Password: "correct horse battery",
		Role:     "staff",
		HostelID: &hostel.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RoleCitizen, resp.User.Role, "effective role stays citizen until approval")
	assert.True(t, resp.User.StaffRequest)
	require.NotNil(t, resp.User.HostelID)
	assert.Equal(t, hostel.ID, *resp.User.HostelID)
}

func TestRegisterStaffUnknownHostel(t *testing.T) {
	svc, client, _ := setupAuthTest(t)
	ctx := context.Background()

	bogus := uuid.New()
	_, err := svc.Register(ctx, RegisterRequest{
		Name:     "Applicant",
		Email:    "applicant@mnnit.ac.in",
		Password: "correct horse battery",
		Role:     "staff",
		HostelID: &bogus,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)

	// Nothing was created under the bogus hostel.
	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterAdminCap(t *testing.T) {
	svc, client, _ := setupAuthTest(t)
	ctx := context.Background()
	hostel := mustCreateHostel(t, client)

	for i := 0; i < 3; i++ {
		_, err := svc.Register(ctx, RegisterRequest{
			Name:       "Warden",
			Email:      uuid.NewString() + "@mnnit.ac.in",
			Password:   "correct horse battery",
			Role:       "admin",
			HostelID:   &hostel.ID,
			SecretCode: "admin-code",
		})
		require.NoError(t, err)
	}

	_, err := svc.Register(ctx, RegisterRequest{
		Name:       "Fourth Warden",
		Email:      "fourth@mnnit.ac.in",
		Password:   "correct horse battery",
		Role:       "admin",
		HostelID:   &hostel.ID,
		SecretCode: "admin-code",
	})
	expectCode(t, err, pkgerrors.CodePolicy)

	// The failed registration must not leave a user behind.
	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Where("email = ?", "fourth@mnnit.ac.in").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterAdminWrongCode(t *testing.T) {
	svc, client, _ := setupAuthTest(t)
	hostel := mustCreateHostel(t, client)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:       "Warden",
		Email:      "warden@mnnit.ac.in",
		Password:   "correct horse battery",
		Role:       "admin",
		HostelID:   &hostel.ID,
		SecretCode: "guess",
	})
	expectCode(t, err, pkgerrors.CodePolicy)
}

func TestRegisterChiefAdmin(t *testing.T) {
	svc, _, _ := setupAuthTest(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:       "Chief",
		Email:      "chief@mnnit.ac.in",
		Password:   "correct horse battery",
		Role:       "chief_admin",
		SecretCode: "chief-code",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleChiefAdmin, resp.User.Role)
	assert.Nil(t, resp.User.HostelID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setupAuthTest(t)
	ctx := context.Background()

	req := RegisterRequest{
		Name:     "Student",
		Email:    "dup@mnnit.ac.in",
		Password: "correct horse battery",
		Role:     "citizen",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestLogin(t *testing.T) {
	svc, _, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Name:     "Student",
		Email:    "login@mnnit.ac.in",
		Password: "correct horse battery",
		Role:     "citizen",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Email: "login@mnnit.ac.in", Password: "correct horse battery"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "login@mnnit.ac.in", Password: "nope"})
		expectCode(t, err, pkgerrors.CodeUnauthorized)
	})

	t.Run("unknownEmail", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@mnnit.ac.in", Password: "whatever"})
		expectCode(t, err, pkgerrors.CodeUnauthorized)
	})
}
