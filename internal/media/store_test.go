package media

import (
	"testing"

	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

func TestExtensionFor(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
		wantErr     bool
	}{
		{"image/png", ".png", false},
		{"image/jpeg", ".jpg", false},
		{"IMAGE/JPEG", ".jpg", false},
		{"image/webp; charset=binary", ".webp", false},
		{"image/gif", "", true},
		{"application/pdf", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			ext, err := extensionFor(tc.contentType)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected rejection for %q", tc.contentType)
				}
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ext != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, ext)
			}
		})
	}
}
