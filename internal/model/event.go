// internal/model/event.go
package model

import "github.com/google/uuid"

// GroupEvent is the wire payload published by the messaging-platform
// client whenever it observes a chat group. AgencyID is optional; 0
// means the owner must be resolved by policy.
type GroupEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	ExternalGroupID string    `json:"external_group_id"`
	GroupName       string    `json:"group_name"`
	AgencyID        int64     `json:"agency_id,omitempty"`
}
