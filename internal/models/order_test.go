package models

import "testing"

func TestValidStatusAcceptsKnownLabels(t *testing.T) {
	for _, status := range KnownStatuses {
		if !ValidStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}
}

func TestValidStatusRejectsUnknownLabels(t *testing.T) {
	for _, status := range []string{"", "shipped", "Cancelled", "Order placed"} {
		if ValidStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}
