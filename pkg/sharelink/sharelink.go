package sharelink

import (
	"time"

	"github.com/google/uuid"
)

// ShareTTL is how long a shared comparison link stays resolvable.
const ShareTTL = 7 * 24 * time.Hour

// SharedComparison is the stored snapshot behind a share code. It holds
// plain property ids, not live records; ids are resolved against the
// listing collection when the link is opened.
type SharedComparison struct {
	Code        string     `json:"code"`
	PropertyIds []string   `json:"property_ids"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
}
