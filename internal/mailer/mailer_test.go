package mailer

import (
	"strings"
	"testing"
)

func TestNewSMTPSenderValidation(t *testing.T) {
	if _, err := NewSMTPSender(Config{From: "noreply@hosteldesk.local"}); err == nil {
		t.Fatal("expected error for missing host")
	}
	if _, err := NewSMTPSender(Config{Host: "smtp.local"}); err == nil {
		t.Fatal("expected error for missing from address")
	}
	if _, err := NewSMTPSender(Config{Host: "smtp.local", From: "noreply@hosteldesk.local"}); err != nil {
		t.Fatalf("expected valid sender, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@hosteldesk.local", "student@mnnit.ac.in", "Complaint filed", "We received your complaint."))

	for _, want := range []string{
		"From: noreply@hosteldesk.local\r\n",
		"To: student@mnnit.ac.in\r\n",
		"Subject: Complaint filed\r\n",
		"\r\n\r\nWe received your complaint.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.HasSuffix(msg, "We received your complaint.") {
		t.Errorf("body should terminate the message, got %q", msg)
	}
}
