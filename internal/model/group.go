// internal/model/group.go
package model

// Group maps an externally-observed chat group onto an owning agency.
// ExternalID is the platform-assigned identifier and is unique across
// all groups; AgencyID is fixed at creation time.
type Group struct {
	ID         int64  `json:"id"`
	AgencyID   int64  `json:"agency_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}
