package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// DocumentDTO represents the document payload returned to clients.
type DocumentDTO struct {
	ID           uuid.UUID  `json:"id"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	FolderID     *uuid.UUID `json:"folder_id,omitempty"`
	RackID       *uuid.UUID `json:"rack_id,omitempty"`
	Title        string     `json:"title"`
	DocumentType string     `json:"document_type"`
	FileSize     int64      `json:"file_size"`
	Tags         []string   `json:"tags"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DocumentListResult wraps a page of documents.
type DocumentListResult struct {
	Documents  []DocumentDTO `json:"documents"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// FolderDTO represents a folder payload.
type FolderDTO struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PresignResult carries a signed URL the client uploads or downloads with.
type PresignResult struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDocumentDTO builds a DTO from the persisted model.
func NewDocumentDTO(row *models.Document) *DocumentDTO {
	return &DocumentDTO{
		ID:           row.ID,
		CustomerID:   row.CustomerID,
		FolderID:     row.FolderID,
		RackID:       row.RackID,
		Title:        row.Title,
		DocumentType: row.DocumentType,
		FileSize:     row.FileSize,
		Tags:         append([]string{}, row.Tags...),
		Status:       string(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// NewFolderDTO builds a DTO from the persisted model.
func NewFolderDTO(row *models.Folder) *FolderDTO {
	return &FolderDTO{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		ParentID:   row.ParentID,
		Name:       row.Name,
		CreatedAt:  row.CreatedAt,
	}
}
