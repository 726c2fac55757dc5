package controllers

import (
	"github.com/google/uuid"

	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

func parseBodyUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "field must be a UUID").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

func parseOptionalBodyUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseBodyUUID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
