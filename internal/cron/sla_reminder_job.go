package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
)

type SLAReminderJobParams struct {
	Logger     *logger.Logger
	Repository overdueComplaintsRepo
	Notifier   slaReminderNotifier
}

type overdueComplaintsRepo interface {
	ListOverdueInProgress(ctx context.Context, now time.Time) ([]models.Complaint, error)
}

type slaReminderNotifier interface {
	SLAReminder(ctx context.Context, complaint *models.Complaint, assignee *models.User)
}

func NewSLAReminderJob(params SLAReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &slaReminderJob{
		logg:     params.Logger,
		repo:     params.Repository,
		notifier: params.Notifier,
		now:      time.Now,
	}, nil
}

type slaReminderJob struct {
	logg     *logger.Logger
	repo     overdueComplaintsRepo
	notifier slaReminderNotifier
	now      func() time.Time
}

func (j *slaReminderJob) Name() string { return "sla-reminder" }

// Run nudges assignees about complaints past their deadline. The sweep is
// read-only: escalation itself happens when the complaint is next acted on.
func (j *slaReminderJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	overdue, err := j.repo.ListOverdueInProgress(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue complaints: %w", err)
	}
	reminded := 0
	for i := range overdue {
		complaint := &overdue[i]
		if complaint.AssignedTo == nil {
			continue
		}
		j.notifier.SLAReminder(ctx, complaint, complaint.AssignedTo)
		reminded++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"overdue":   len(overdue),
		"reminders": reminded,
	})
	j.logg.Info(logCtx, "sla reminder sweep complete")
	return nil
}
