package workflow

import (
	"testing"

	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(NewRepository(nil)); err != nil {
		t.Fatalf("expected service to construct, got %v", err)
	}
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    enums.DocumentStatus
		to      enums.DocumentStatus
		wantErr bool
	}{
		{name: "pending to stored", from: enums.DocumentStatusPending, to: enums.DocumentStatusStored, wantErr: false},
		{name: "stored to archived", from: enums.DocumentStatusStored, to: enums.DocumentStatusArchived, wantErr: false},
		{name: "archived to stored", from: enums.DocumentStatusArchived, to: enums.DocumentStatusStored, wantErr: false},
		{name: "stored to destroyed", from: enums.DocumentStatusStored, to: enums.DocumentStatusDestroyed, wantErr: false},
		{name: "same status", from: enums.DocumentStatusStored, to: enums.DocumentStatusStored, wantErr: true},
		{name: "destroyed is terminal", from: enums.DocumentStatusDestroyed, to: enums.DocumentStatusStored, wantErr: true},
		{name: "pending to archived skips stored", from: enums.DocumentStatusPending, to: enums.DocumentStatusArchived, wantErr: true},
		{name: "invalid from", from: "misplaced", to: enums.DocumentStatusStored, wantErr: true},
		{name: "invalid to", from: enums.DocumentStatusStored, to: "shredded", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTransition(tc.from, tc.to)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Fatalf("expected validation code, got %v", err)
				}
			}
		})
	}
}
