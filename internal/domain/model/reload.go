package model

import (
	"time"

	"github.com/google/uuid"
)

// Reload trigger reasons.
const (
	ReasonStartup  = "startup"
	ReasonPeriodic = "periodic"
	ReasonManual   = "manual"
)

// ReloadRequest asks for a fresh snapshot to be fetched and published.
type ReloadRequest struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewReloadRequest creates a request with a fresh identifier.
func NewReloadRequest(reason string) ReloadRequest {
	return ReloadRequest{
		ID:          uuid.NewString(),
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
}
