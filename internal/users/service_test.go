package user

import (
	"testing"

	"github.com/davidquintana/archivio-backend/pkg/config"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil, config.PasswordConfig{}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(NewRepository(nil), config.PasswordConfig{}); err != nil {
		t.Fatalf("expected service to construct, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Ops@Example.COM", want: "ops@example.com"},
		{in: "  admin@archive.io  ", want: "admin@archive.io"},
		{in: "", wantErr: true},
		{in: "no-at-sign", wantErr: true},
		{in: "@example.com", wantErr: true},
		{in: "user@", wantErr: true},
		{in: "user@nodot", wantErr: true},
	}
	for _, tc := range cases {
		got, err := normalizeEmail(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("normalizeEmail(%q): expected error", tc.in)
			}
			if err != nil {
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Errorf("normalizeEmail(%q): expected validation code, got %v", tc.in, err)
				}
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeEmail(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := validatePassword("long-enough-secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
