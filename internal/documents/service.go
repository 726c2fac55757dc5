package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/pagination"
	"github.com/davidquintana/archivio-backend/pkg/pubsub"
)

// Service exposes document intake and lifecycle operations.
type Service interface {
	CreateDocument(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*DocumentDTO, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*DocumentDTO, error)
	ListDocuments(ctx context.Context, filter ListFilter, params pagination.Params) (*DocumentListResult, error)
	PresignUpload(ctx context.Context, id uuid.UUID, contentType string) (*PresignResult, error)
	PresignDownload(ctx context.Context, id uuid.UUID) (*PresignResult, error)
	Place(ctx context.Context, id uuid.UUID, actor *pubsub.ActorRef) (*assignment.Decision, error)
	Transition(ctx context.Context, id uuid.UUID, next enums.DocumentStatus, actor *pubsub.ActorRef) (*DocumentDTO, error)
	CreateFolder(ctx context.Context, input CreateFolderInput) (*FolderDTO, error)
	ListFolders(ctx context.Context, customerID uuid.UUID) ([]FolderDTO, error)
	DeleteFolder(ctx context.Context, id uuid.UUID) error
}

// CreateDocumentInput holds the validated payload to register a document.
type CreateDocumentInput struct {
	CustomerID   uuid.UUID
	FolderID     *uuid.UUID
	Title        string
	DocumentType string
	FileSize     int64
	ContentText  string
	Tags         []string
}

// UpdateDocumentInput holds optional metadata mutations.
type UpdateDocumentInput struct {
	Title       *string
	FolderID    *uuid.UUID
	ClearFolder bool
	Tags        *[]string
	ContentText *string
}

// CreateFolderInput holds the validated payload to create a folder.
type CreateFolderInput struct {
	CustomerID uuid.UUID
	ParentID   *uuid.UUID
	Name       string
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type assignmentStore interface {
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Assignment, error)
	ReserveSlot(ctx context.Context, rackID uuid.UUID, thresholdPct float64) (bool, error)
	ReleaseSlot(ctx context.Context, rackID uuid.UUID) (bool, error)
}

type blobSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

type service struct {
	repo           *Repository
	customerRepo   customerLoader
	assignmentRepo assignmentStore
	signer         blobSigner
	publisher      pubsub.EventPublisher
	gcsCfg         config.GCSConfig
	docsCfg        config.DocumentsConfig
}

// NewService constructs a document service instance. signer and publisher may
// be nil in deployments without GCS or pubsub wired; the dependent operations
// then return a dependency error.
func NewService(
	repo *Repository,
	customerRepo customerLoader,
	assignmentRepo assignmentStore,
	signer blobSigner,
	publisher pubsub.EventPublisher,
	gcsCfg config.GCSConfig,
	docsCfg config.DocumentsConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if assignmentRepo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	return &service{
		repo:           repo,
		customerRepo:   customerRepo,
		assignmentRepo: assignmentRepo,
		signer:         signer,
		publisher:      publisher,
		gcsCfg:         gcsCfg,
		docsCfg:        docsCfg,
	}, nil
}

// CreateDocument registers document metadata in status pending. The binary is
// uploaded separately through the presign flow.
func (s *service) CreateDocument(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	docType := strings.TrimSpace(input.DocumentType)
	if docType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document_type is required")
	}
	if input.FileSize < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_size cannot be negative")
	}
	if max := s.maxUploadBytes(); max > 0 && input.FileSize > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file_size exceeds the %dMB upload limit", s.docsCfg.MaxUploadMB))
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if !customer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer is inactive")
	}
	if !acceptsDocumentType(customer.AcceptedDocumentTypes, docType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("customer does not accept document type %q", docType))
	}

	if input.FolderID != nil {
		if err := s.checkFolderOwnership(ctx, *input.FolderID, customer.ID); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	row := &models.Document{
		ID:           id,
		CustomerID:   customer.ID,
		FolderID:     input.FolderID,
		Title:        title,
		DocumentType: docType,
		FileSize:     input.FileSize,
		GCSKey:       objectKey(customer.ID, id),
		ContentText:  input.ContentText,
		Tags:         input.Tags,
		Status:       enums.DocumentStatusPending,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert document")
	}
	return NewDocumentDTO(created), nil
}

// UpdateDocument applies metadata mutations. Status moves through Transition
// and Place only.
func (s *service) UpdateDocument(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*DocumentDTO, error) {
	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.DocumentStatusDestroyed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "document is destroyed")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		row.Title = title
	}
	switch {
	case input.ClearFolder:
		row.FolderID = nil
	case input.FolderID != nil:
		if err := s.checkFolderOwnership(ctx, *input.FolderID, row.CustomerID); err != nil {
			return nil, err
		}
		row.FolderID = input.FolderID
	}
	if input.Tags != nil {
		row.Tags = *input.Tags
	}
	if input.ContentText != nil {
		row.ContentText = *input.ContentText
		// Stale until the search indexer recomputes it.
		row.Embedding = nil
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update document")
	}
	return NewDocumentDTO(updated), nil
}

// GetDocument returns a single document.
func (s *service) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentDTO, error) {
	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewDocumentDTO(row), nil
}

// ListDocuments returns a page of the customer's documents.
func (s *service) ListDocuments(ctx context.Context, filter ListFilter, params pagination.Params) (*DocumentListResult, error) {
	if filter.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	rows, nextCursor, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list documents")
	}
	dtos := make([]DocumentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewDocumentDTO(&rows[i]))
	}
	return &DocumentListResult{Documents: dtos, NextCursor: nextCursor}, nil
}

// PresignUpload returns a signed PUT URL for the document binary. Only
// pending documents accept uploads.
func (s *service) PresignUpload(ctx context.Context, id uuid.UUID, contentType string) (*PresignResult, error) {
	if s.signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "blob storage is not configured")
	}
	if strings.TrimSpace(contentType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content_type is required")
	}

	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status != enums.DocumentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "uploads are only accepted while the document is pending")
	}

	expires := s.gcsCfg.UploadURLExpiry
	url, err := s.signer.SignedURL("", row.GCSKey, contentType, expires)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gcs: sign upload url")
	}
	return &PresignResult{URL: url, Method: "PUT", ExpiresAt: time.Now().Add(expires)}, nil
}

// PresignDownload returns a signed GET URL for the document binary.
func (s *service) PresignDownload(ctx context.Context, id uuid.UUID) (*PresignResult, error) {
	if s.signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "blob storage is not configured")
	}

	row, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.DocumentStatusDestroyed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "document is destroyed")
	}

	expires := s.gcsCfg.DownloadURLExpiry
	url, err := s.signer.SignedReadURL("", row.GCSKey, expires)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gcs: sign download url")
	}
	return &PresignResult{URL: url, Method: "GET", ExpiresAt: time.Now().Add(expires)}, nil
}

// CreateFolder adds a folder to the customer's tree.
func (s *service) CreateFolder(ctx context.Context, input CreateFolderInput) (*FolderDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if input.ParentID != nil {
		if err := s.checkFolderOwnership(ctx, *input.ParentID, input.CustomerID); err != nil {
			return nil, err
		}
	}

	row := &models.Folder{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		ParentID:   input.ParentID,
		Name:       name,
	}
	created, err := s.repo.CreateFolder(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert folder")
	}
	return NewFolderDTO(created), nil
}

// ListFolders returns the customer's folders.
func (s *service) ListFolders(ctx context.Context, customerID uuid.UUID) ([]FolderDTO, error) {
	rows, err := s.repo.ListFolders(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list folders")
	}
	dtos := make([]FolderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewFolderDTO(&rows[i]))
	}
	return dtos, nil
}

// DeleteFolder removes a folder that holds no documents and no child folders.
func (s *service) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindFolderByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "folder not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load folder")
	}

	docs, err := s.repo.CountByFolder(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count folder documents")
	}
	if docs > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "folder still contains documents")
	}
	children, err := s.repo.CountChildFolders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count child folders")
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "folder still contains folders")
	}

	if err := s.repo.DeleteFolder(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete folder")
	}
	return nil
}

func (s *service) loadDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load document")
	}
	return row, nil
}

func (s *service) checkFolderOwnership(ctx context.Context, folderID, customerID uuid.UUID) error {
	folder, err := s.repo.FindFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "folder not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load folder")
	}
	if folder.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "folder belongs to a different customer")
	}
	return nil
}

func (s *service) maxUploadBytes() int64 {
	return int64(s.docsCfg.MaxUploadMB) * 1024 * 1024
}

func acceptsDocumentType(accepted []string, docType string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, candidate := range accepted {
		if strings.EqualFold(candidate, docType) {
			return true
		}
	}
	return false
}

func objectKey(customerID, documentID uuid.UUID) string {
	return fmt.Sprintf("customers/%s/documents/%s", customerID, documentID)
}
