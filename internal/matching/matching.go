package matching

import (
	"time"

	"github.com/google/uuid"
)

// Rule maps any raw description containing RawPattern, case-insensitively, to
// Category. Rules belong to one organization.
type Rule struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	RawPattern     string    `json:"raw_pattern"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
}
