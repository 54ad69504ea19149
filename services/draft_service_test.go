package services

import (
	"context"
	"testing"

	"github.com/alhijra-ng/alhijra_backend/models"
)

func TestNewFlowDraft(t *testing.T) {
	draft, err := NewFlowDraft(models.FlowPilgrimOnboarding)
	if err != nil {
		t.Fatalf("NewFlowDraft: %v", err)
	}
	if draft.Step != 1 {
		t.Errorf("new draft step = %d, want 1", draft.Step)
	}
	if draft.MaxStep != 3 {
		t.Errorf("pilgrim onboarding maxStep = %d, want 3", draft.MaxStep)
	}

	if _, err := NewFlowDraft("no-such-flow"); err == nil {
		t.Error("expected error for unknown flow")
	}
}

func TestStepClamping(t *testing.T) {
	draft, _ := NewFlowDraft(models.FlowPackageCreation)

	// Prev at step 1 stays at 1
	PrevStep(draft)
	if draft.Step != 1 {
		t.Errorf("PrevStep at 1: step = %d, want 1", draft.Step)
	}

	// Next beyond MaxStep stays at MaxStep
	for i := 0; i < 10; i++ {
		NextStep(draft)
	}
	if draft.Step != draft.MaxStep {
		t.Errorf("step after 10x NextStep = %d, want %d", draft.Step, draft.MaxStep)
	}

	PrevStep(draft)
	if draft.Step != draft.MaxStep-1 {
		t.Errorf("step after PrevStep = %d, want %d", draft.Step, draft.MaxStep-1)
	}
}

func TestMergeFields(t *testing.T) {
	draft, _ := NewFlowDraft(models.FlowAgencyOnboarding)

	MergeFields(draft, map[string]string{"agencyName": "Noor Travels"})
	MergeFields(draft, map[string]string{"licenseNumber": "NG-123", "agencyName": "Noor Travels Ltd"})

	if draft.Fields["agencyName"] != "Noor Travels Ltd" {
		t.Errorf("agencyName = %q, want overwritten value", draft.Fields["agencyName"])
	}
	if draft.Fields["licenseNumber"] != "NG-123" {
		t.Errorf("licenseNumber = %q", draft.Fields["licenseNumber"])
	}
}

func TestValidateSubmit(t *testing.T) {
	draft, _ := NewFlowDraft(models.FlowBookingRequest)

	missing := ValidateSubmit(draft)
	if len(missing) != 4 {
		t.Fatalf("empty draft missing = %v, want 4 fields", missing)
	}

	MergeFields(draft, map[string]string{
		"packageId":     "abc",
		"travelerName":  "Aisha Bello",
		"travelerEmail": "aisha@example.com",
	})
	missing = ValidateSubmit(draft)
	if len(missing) != 1 || missing[0] != "travelerPhone" {
		t.Errorf("missing = %v, want [travelerPhone]", missing)
	}

	MergeFields(draft, map[string]string{"travelerPhone": "+2348000000000"})
	if missing := ValidateSubmit(draft); len(missing) != 0 {
		t.Errorf("complete draft missing = %v, want none", missing)
	}
}

// A nil Redis client disables persistence but must not error
func TestDraftServiceNilRedis(t *testing.T) {
	svc := NewDraftService(nil)
	ctx := context.Background()

	draft, err := svc.Get(ctx, "user1", models.FlowPilgrimOnboarding)
	if err != nil || draft != nil {
		t.Errorf("Get with nil redis = (%v, %v), want (nil, nil)", draft, err)
	}

	draft, err = svc.GetOrCreate(ctx, "user1", models.FlowPilgrimOnboarding)
	if err != nil {
		t.Fatalf("GetOrCreate with nil redis: %v", err)
	}
	if draft == nil || draft.Step != 1 {
		t.Errorf("GetOrCreate should return a fresh draft, got %+v", draft)
	}

	if err := svc.Save(ctx, "user1", draft); err != nil {
		t.Errorf("Save with nil redis: %v", err)
	}
	if err := svc.Delete(ctx, "user1", models.FlowPilgrimOnboarding); err != nil {
		t.Errorf("Delete with nil redis: %v", err)
	}
}
