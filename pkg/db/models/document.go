package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Document is the archived record. The binary lives in GCS under GCSKey;
// ContentText holds the extracted text used for keyword search and the
// embedding vector.
type Document struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	FolderID     *uuid.UUID           `gorm:"column:folder_id;type:uuid;index"`
	RackID       *uuid.UUID           `gorm:"column:rack_id;type:uuid;index"`
	Title        string               `gorm:"column:title;not null"`
	DocumentType string               `gorm:"column:document_type;not null"`
	FileSize     int64                `gorm:"column:file_size;not null;default:0"`
	GCSKey       string               `gorm:"column:gcs_key"`
	ContentText  string               `gorm:"column:content_text"`
	Embedding    pq.Float64Array      `gorm:"column:embedding;type:double precision[]"`
	Tags         pq.StringArray       `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Status       enums.DocumentStatus `gorm:"column:status;not null;default:'pending'"`
	Customer     *Customer            `gorm:"foreignKey:CustomerID"`
	Rack         *Rack                `gorm:"foreignKey:RackID"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
