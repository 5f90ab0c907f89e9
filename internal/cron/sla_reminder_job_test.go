package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
)

func TestSLAReminderJobNotifiesAssignees(t *testing.T) {
	staff := &models.User{ID: uuid.New(), Email: "staff@mnnit.ac.in"}
	assignedID := uuid.New()
	repo := &fakeOverdueRepo{complaints: []models.Complaint{
		{ID: assignedID, Title: "Broken tap", AssignedToID: &staff.ID, AssignedTo: staff},
		{ID: uuid.New(), Title: "No assignee yet"},
	}}
	notifier := &fakeSLANotifier{}
	job := newSLAReminderJob(t, repo, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.reminded) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(notifier.reminded))
	}
	if notifier.reminded[0] != assignedID {
		t.Fatalf("expected reminder for %s, got %s", assignedID, notifier.reminded[0])
	}
}

func TestSLAReminderJobPropagatesRepoErrors(t *testing.T) {
	repo := &fakeOverdueRepo{err: errors.New("boom")}
	notifier := &fakeSLANotifier{}
	job := newSLAReminderJob(t, repo, notifier)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(notifier.reminded) != 0 {
		t.Fatalf("expected no reminders, got %d", len(notifier.reminded))
	}
}

func newSLAReminderJob(t *testing.T, repo *fakeOverdueRepo, notifier *fakeSLANotifier) *slaReminderJob {
	t.Helper()
	jobIface, err := NewSLAReminderJob(SLAReminderJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		Notifier:   notifier,
	})
	if err != nil {
		t.Fatalf("NewSLAReminderJob: %v", err)
	}
	job, ok := jobIface.(*slaReminderJob)
	if !ok {
		t.Fatalf("expected slaReminderJob, got %T", jobIface)
	}
	return job
}

type fakeOverdueRepo struct {
	complaints []models.Complaint
	err        error
}

func (f *fakeOverdueRepo) ListOverdueInProgress(ctx context.Context, now time.Time) ([]models.Complaint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.complaints, nil
}

type fakeSLANotifier struct {
	reminded []uuid.UUID
}

func (f *fakeSLANotifier) SLAReminder(ctx context.Context, complaint *models.Complaint, assignee *models.User) {
	f.reminded = append(f.reminded, complaint.ID)
}
