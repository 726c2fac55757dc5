package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(CodeNotFound, cause, "customer missing")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to match cause via errors.Is")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", err.Code())
	}
	if err.Error() != "NOT_FOUND: customer missing" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeConflict, nil, "duplicate code")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Message() != "duplicate code" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeCapacityConflict, "rack full")
	outer := fmt.Errorf("placing document: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeCapacityConflict {
		t.Fatalf("expected CAPACITY_CONFLICT, got %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback, got %d", meta.HTTPStatus)
	}
}

func TestCapacityConflictIsRetryable(t *testing.T) {
	meta := MetadataFor(CodeCapacityConflict)
	if !meta.Retryable {
		t.Fatal("capacity conflicts should be retryable")
	}
	if meta.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %d", meta.HTTPStatus)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, errors.New("db down"), "loading racks")
	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected code in dump, got %q", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
