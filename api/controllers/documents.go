package controllers

import (
	"net/http"
	"strings"

	"github.com/davidquintana/archivio-backend/api/middleware"
	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	document "github.com/davidquintana/archivio-backend/internal/documents"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/pubsub"

	"github.com/google/uuid"
)

type createDocumentRequest struct {
	CustomerID   string   `json:"customer_id" validate:"required,uuid"`
	FolderID     *string  `json:"folder_id" validate:"omitempty,uuid"`
	Title        string   `json:"title" validate:"required,min=1,max=240"`
	DocumentType string   `json:"document_type" validate:"required,min=1,max=64"`
	FileSize     int64    `json:"file_size" validate:"required,min=1"`
	ContentText  string   `json:"content_text"`
	Tags         []string `json:"tags" validate:"omitempty,dive,min=1"`
}

type updateDocumentRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=240"`
	FolderID    *string   `json:"folder_id" validate:"omitempty,uuid"`
	ClearFolder bool      `json:"clear_folder"`
	Tags        *[]string `json:"tags"`
	ContentText *string   `json:"content_text"`
}

type transitionDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=stored archived destroyed"`
}

type presignUploadRequest struct {
	ContentType string `json:"content_type" validate:"required,min=3,max=120"`
}

type createFolderRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	ParentID   *string `json:"parent_id" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required,min=1,max=120"`
}

func DocumentCreate(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDocumentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseBodyUUID(req.CustomerID, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		folderID, err := parseOptionalBodyUUID(req.FolderID, "folder_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateDocument(r.Context(), document.CreateDocumentInput{
			CustomerID:   customerID,
			FolderID:     folderID,
			Title:        strings.TrimSpace(req.Title),
			DocumentType: strings.TrimSpace(req.DocumentType),
			FileSize:     req.FileSize,
			ContentText:  req.ContentText,
			Tags:         req.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func DocumentUpdate(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDocumentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		folderID, err := parseOptionalBodyUUID(req.FolderID, "folder_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateDocument(r.Context(), id, document.UpdateDocumentInput{
			Title:       req.Title,
			FolderID:    folderID,
			ClearFolder: req.ClearFolder,
			Tags:        req.Tags,
			ContentText: req.ContentText,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DocumentDetail(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetDocument(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DocumentList(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_id query parameter required"))
			return
		}

		filter := document.ListFilter{
			CustomerID: customerID,
			Tag:        strings.TrimSpace(r.URL.Query().Get("tag")),
		}
		folderID, err := validators.ParseQueryUUID(r, "folder_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if folderID != uuid.Nil {
			filter.FolderID = &folderID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseDocumentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = status
		}

		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListDocuments(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DocumentPlace runs assignment evaluation and commits the document to the
// chosen rack. A failed decision comes back 200 with success=false so the
// operator sees the evaluator's reasoning.
func DocumentPlace(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := svc.Place(r.Context(), id, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decision)
	}
}

func DocumentTransition(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req transitionDocumentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseDocumentStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.Transition(r.Context(), id, next, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DocumentPresignUpload(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req presignUploadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PresignUpload(r.Context(), id, strings.TrimSpace(req.ContentType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DocumentPresignDownload(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.PresignDownload(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func FolderCreate(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFolderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseBodyUUID(req.CustomerID, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		parentID, err := parseOptionalBodyUUID(req.ParentID, "parent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateFolder(r.Context(), document.CreateFolderInput{
			CustomerID: customerID,
			ParentID:   parentID,
			Name:       strings.TrimSpace(req.Name),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func FolderList(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_id query parameter required"))
			return
		}
		rows, err := svc.ListFolders(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func FolderDelete(svc document.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "folderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteFolder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func actorFromContext(r *http.Request) *pubsub.ActorRef {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return nil
	}
	return &pubsub.ActorRef{
		UserID: userID,
		Role:   string(middleware.RoleFromContext(r.Context())),
	}
}
