package models

import "testing"

func TestCanTransitionPaymentStatus(t *testing.T) {
	allowed := []struct{ from, to string }{
		{PaymentStatusUnpaid, PaymentStatusPending},
		{PaymentStatusUnpaid, PaymentStatusCancelled},
		{PaymentStatusPending, PaymentStatusPaid},
		{PaymentStatusPending, PaymentStatusCancelled},
		{PaymentStatusPaid, PaymentStatusConfirmed},
	}
	for _, tt := range allowed {
		if !CanTransitionPaymentStatus(tt.from, tt.to) {
			t.Errorf("transition %s -> %s should be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to string }{
		{PaymentStatusUnpaid, PaymentStatusPaid},
		{PaymentStatusUnpaid, PaymentStatusConfirmed},
		{PaymentStatusPending, PaymentStatusConfirmed},
		{PaymentStatusPaid, PaymentStatusCancelled},
		{PaymentStatusPaid, PaymentStatusUnpaid},
		{PaymentStatusConfirmed, PaymentStatusCancelled},
		{PaymentStatusConfirmed, PaymentStatusUnpaid},
		{PaymentStatusCancelled, PaymentStatusPending},
		{"bogus", PaymentStatusPaid},
	}
	for _, tt := range denied {
		if CanTransitionPaymentStatus(tt.from, tt.to) {
			t.Errorf("transition %s -> %s should be denied", tt.from, tt.to)
		}
	}
}

// Terminal statuses must have no outgoing transitions at all
func TestTerminalStatuses(t *testing.T) {
	all := []string{
		PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid,
		PaymentStatusConfirmed, PaymentStatusCancelled,
	}
	for _, to := range all {
		if CanTransitionPaymentStatus(PaymentStatusConfirmed, to) {
			t.Errorf("confirmed should be terminal, allows -> %s", to)
		}
		if CanTransitionPaymentStatus(PaymentStatusCancelled, to) {
			t.Errorf("cancelled should be terminal, allows -> %s", to)
		}
	}
}

func TestIsPaymentComplete(t *testing.T) {
	if !IsPaymentComplete(PaymentStatusPaid) || !IsPaymentComplete(PaymentStatusConfirmed) {
		t.Error("paid and confirmed should count as complete")
	}
	for _, s := range []string{PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusCancelled, ""} {
		if IsPaymentComplete(s) {
			t.Errorf("%q should not count as complete", s)
		}
	}
}
