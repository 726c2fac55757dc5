package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// AssignmentRule is a declarative template. Materializing a rule creates
// Assignment rows for every customer whose code matches CustomerPattern; the
// evaluator itself only ever reads Assignment rows.
type AssignmentRule struct {
	ID                     uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                   string            `gorm:"column:name;not null;uniqueIndex"`
	CustomerPattern        string            `gorm:"column:customer_pattern;not null;default:'*'"`
	DocumentTypeConditions pq.StringArray    `gorm:"column:document_type_conditions;type:text[];not null;default:ARRAY[]::text[]"`
	FileSizeMin            int64             `gorm:"column:file_size_min;not null;default:0"`
	FileSizeMax            *int64            `gorm:"column:file_size_max"`
	PriorityLevel          int               `gorm:"column:priority_level;not null;default:100"`
	PreferredRackPatterns  pq.StringArray    `gorm:"column:preferred_rack_patterns;type:text[];not null;default:ARRAY[]::text[]"`
	FallbackRackPatterns   pq.StringArray    `gorm:"column:fallback_rack_patterns;type:text[];not null;default:ARRAY[]::text[]"`
	CapacityThresholdPct   float64           `gorm:"column:capacity_threshold_pct;type:numeric(5,2);not null;default:90"`
	OrderBy                enums.RuleOrderBy `gorm:"column:order_by;not null;default:'chronological'"`
	IsActive               bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
