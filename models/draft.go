package models

import "time"

// Multi-step flow names
const (
	FlowPilgrimOnboarding = "pilgrim-onboarding"
	FlowAgencyOnboarding  = "agency-onboarding"
	FlowPackageCreation   = "package-creation"
	FlowBookingRequest    = "booking-request"
)

// FormDraft is the persisted state of a multi-step form flow. Step is
// 1-based and clamped to [1, MaxStep]; fields are a flat map of whatever
// the steps have collected so far.
type FormDraft struct {
	Flow      string            `json:"flow"`
	Step      int               `json:"step"`
	MaxStep   int               `json:"maxStep"`
	Fields    map[string]string `json:"fields"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DraftUpdateRequest is the body for saving per-step fields
type DraftUpdateRequest struct {
	Fields map[string]string `json:"fields"`
}

// DraftResponse model
type DraftResponse struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Data    *FormDraft `json:"data,omitempty"`
}
