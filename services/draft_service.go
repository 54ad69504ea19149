package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/alhijra-ng/alhijra_backend/models"
)

// Step counts per flow. Every flow is a linear machine over 1..maxStep.
var flowSteps = map[string]int{
	models.FlowPilgrimOnboarding: 3,
	models.FlowAgencyOnboarding:  3,
	models.FlowPackageCreation:   4,
	models.FlowBookingRequest:    3,
}

// Required fields checked only at final submission, not per step.
var flowRequiredFields = map[string][]string{
	models.FlowPilgrimOnboarding: {"passportNumber", "nationality", "dateOfBirth"},
	models.FlowAgencyOnboarding:  {"agencyName", "licenseNumber"},
	models.FlowPackageCreation:   {"type", "title", "price", "durationDays"},
	models.FlowBookingRequest:    {"packageId", "travelerName", "travelerEmail", "travelerPhone"},
}

const draftTTL = 24 * time.Hour

// NewFlowDraft starts a draft at step 1 for a known flow
func NewFlowDraft(flow string) (*models.FormDraft, error) {
	maxStep, ok := flowSteps[flow]
	if !ok {
		return nil, fmt.Errorf("unknown flow: %s", flow)
	}
	return &models.FormDraft{
		Flow:      flow,
		Step:      1,
		MaxStep:   maxStep,
		Fields:    make(map[string]string),
		UpdatedAt: time.Now(),
	}, nil
}

// NextStep advances a draft one step, clamped at MaxStep
func NextStep(d *models.FormDraft) {
	d.Step++
	if d.Step > d.MaxStep {
		d.Step = d.MaxStep
	}
	d.UpdatedAt = time.Now()
}

// PrevStep moves a draft back one step, clamped at 1
func PrevStep(d *models.FormDraft) {
	d.Step--
	if d.Step < 1 {
		d.Step = 1
	}
	d.UpdatedAt = time.Now()
}

// MergeFields overlays per-step field values onto the draft
func MergeFields(d *models.FormDraft, fields map[string]string) {
	if d.Fields == nil {
		d.Fields = make(map[string]string)
	}
	for k, v := range fields {
		d.Fields[k] = v
	}
	d.UpdatedAt = time.Now()
}

// ValidateSubmit returns the names of required fields that are still empty.
// An empty result means the draft may be persisted.
func ValidateSubmit(d *models.FormDraft) []string {
	var missing []string
	for _, field := range flowRequiredFields[d.Flow] {
		if d.Fields[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// DraftService persists form drafts in Redis so a flow survives page
// reloads. Drafts are best effort: a nil Redis client disables persistence
// and every operation degrades to "no draft found".
type DraftService struct {
	redis *redis.Client
}

// NewDraftService creates a new draft service
func NewDraftService(redisClient *redis.Client) *DraftService {
	return &DraftService{redis: redisClient}
}

func draftKey(userID, flow string) string {
	return fmt.Sprintf("draft:%s:%s", flow, userID)
}

// Get loads a user's draft for a flow, or nil if none exists
func (s *DraftService) Get(ctx context.Context, userID, flow string) (*models.FormDraft, error) {
	if s.redis == nil {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, draftKey(userID, flow)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var draft models.FormDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		// Corrupt draft, discard it
		s.redis.Del(ctx, draftKey(userID, flow))
		return nil, nil
	}

	return &draft, nil
}

// GetOrCreate loads a user's draft or starts a fresh one at step 1
func (s *DraftService) GetOrCreate(ctx context.Context, userID, flow string) (*models.FormDraft, error) {
	draft, err := s.Get(ctx, userID, flow)
	if err != nil {
		return nil, err
	}
	if draft != nil {
		return draft, nil
	}
	return NewFlowDraft(flow)
}

// Save stores a draft with the standard TTL
func (s *DraftService) Save(ctx context.Context, userID string, draft *models.FormDraft) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	return s.redis.Set(ctx, draftKey(userID, draft.Flow), data, draftTTL).Err()
}

// Delete removes a draft after successful submission
func (s *DraftService) Delete(ctx context.Context, userID, flow string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, draftKey(userID, flow)).Err()
}
