package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/internal/mailer"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
)

// Notifier fires the notification trigger points: an in-app record plus a
// best-effort email per event. Failures are logged and never surfaced to
// the caller, so a dropped email cannot roll back a state transition.
type Notifier interface {
	ComplaintCreated(ctx context.Context, complaint *models.Complaint, reporter *models.User)
	ComplaintAssigned(ctx context.Context, complaint *models.Complaint, reporter, assignee *models.User, reassigned bool)
	ComplaintResolved(ctx context.Context, complaint *models.Complaint, reporter *models.User)
	ComplaintEscalated(ctx context.Context, complaint *models.Complaint, reporter *models.User)
	AccountCreated(ctx context.Context, user *models.User)
	StaffPromoted(ctx context.Context, user *models.User)
	StaffRejected(ctx context.Context, user *models.User)
	SLAReminder(ctx context.Context, complaint *models.Complaint, assignee *models.User)
}

type notifier struct {
	repo   Repository
	sender mailer.Sender
	log    *logger.Logger
}

// NewNotifier wires the notifier dependencies.
func NewNotifier(repo Repository, sender mailer.Sender, log *logger.Logger) (Notifier, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mail sender required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &notifier{repo: repo, sender: sender, log: log}, nil
}

func (n *notifier) ComplaintCreated(ctx context.Context, complaint *models.Complaint, reporter *models.User) {
	n.emit(ctx, reporter, enums.NotificationTypeComplaintCreated,
		"Complaint filed",
		fmt.Sprintf("Your complaint %q was filed and is awaiting assignment.", complaint.Title))
}

func (n *notifier) ComplaintAssigned(ctx context.Context, complaint *models.Complaint, reporter, assignee *models.User, reassigned bool) {
	kind := enums.NotificationTypeComplaintAssigned
	title := "Complaint assigned"
	if reassigned {
		kind = enums.NotificationTypeComplaintReassigned
		title = "Complaint reassigned"
	}
	n.emit(ctx, reporter, kind, title,
		fmt.Sprintf("Your complaint %q was assigned to %s.", complaint.Title, assignee.Name))
	n.emit(ctx, assignee, kind, title,
		fmt.Sprintf("Complaint %q in %s was assigned to you.", complaint.Title, complaint.Area))
}

func (n *notifier) ComplaintResolved(ctx context.Context, complaint *models.Complaint, reporter *models.User) {
	n.emit(ctx, reporter, enums.NotificationTypeComplaintResolved,
		"Complaint resolved",
		fmt.Sprintf("Your complaint %q has been resolved.", complaint.Title))
}

func (n *notifier) ComplaintEscalated(ctx context.Context, complaint *models.Complaint, reporter *models.User) {
	n.emit(ctx, reporter, enums.NotificationTypeComplaintEscalated,
		"Complaint escalated",
		fmt.Sprintf("Your complaint %q exceeded its resolution deadline and was escalated for review.", complaint.Title))
}

func (n *notifier) AccountCreated(ctx context.Context, user *models.User) {
	n.emit(ctx, user, enums.NotificationTypeAccountCreated,
		"Welcome to HostelDesk",
		fmt.Sprintf("Your account %s was created with role %s.", user.Email, user.Role))
}

func (n *notifier) StaffPromoted(ctx context.Context, user *models.User) {
	n.emit(ctx, user, enums.NotificationTypeStaffPromoted,
		"Staff request approved",
		"Your staff request was approved. You can now be assigned complaints.")
}

func (n *notifier) StaffRejected(ctx context.Context, user *models.User) {
	n.emit(ctx, user, enums.NotificationTypeStaffRejected,
		"Staff request rejected",
		"Your staff request was rejected. You remain registered as a citizen.")
}

func (n *notifier) SLAReminder(ctx context.Context, complaint *models.Complaint, assignee *models.User) {
	n.emit(ctx, assignee, enums.NotificationTypeSLAReminder,
		"Complaint past deadline",
		fmt.Sprintf("Complaint %q is still in progress past its %dh deadline.", complaint.Title, complaint.SLAHours))
}

// emit writes the in-app record, then mails the user. Either half may fail
// independently; both failures are logged and swallowed.
func (n *notifier) emit(ctx context.Context, user *models.User, kind enums.NotificationType, title, message string) {
	if user == nil {
		return
	}
	record := &models.Notification{
		ID:      uuid.New(),
		UserID:  user.ID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := n.repo.Create(ctx, record); err != nil {
		n.log.Error(n.log.WithField(ctx, "notification_type", string(kind)), "create notification", err)
	}
	if err := n.sender.Send(ctx, user.Email, title, message); err != nil {
		n.log.Error(n.log.WithField(ctx, "notification_type", string(kind)), "send notification mail", err)
	}
}
