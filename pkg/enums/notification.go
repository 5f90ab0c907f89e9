package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeComplaintCreated    NotificationType = "complaint_created"
	NotificationTypeComplaintAssigned   NotificationType = "complaint_assigned"
	NotificationTypeComplaintReassigned NotificationType = "complaint_reassigned"
	NotificationTypeComplaintResolved   NotificationType = "complaint_resolved"
	NotificationTypeComplaintEscalated  NotificationType = "complaint_escalated"
	NotificationTypeAccountCreated      NotificationType = "account_created"
	NotificationTypeStaffPromoted       NotificationType = "staff_promoted"
	NotificationTypeStaffRejected       NotificationType = "staff_rejected"
	NotificationTypeSLAReminder         NotificationType = "sla_reminder"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeComplaintCreated,
	NotificationTypeComplaintAssigned,
	NotificationTypeComplaintReassigned,
	NotificationTypeComplaintResolved,
	NotificationTypeComplaintEscalated,
	NotificationTypeAccountCreated,
	NotificationTypeStaffPromoted,
	NotificationTypeStaffRejected,
	NotificationTypeSLAReminder,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
