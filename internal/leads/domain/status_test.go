package domain

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{
		LeadStatusNew, LeadStatusAssigned, LeadStatusRejected,
		LeadStatusReassigned, LeadStatusConverted, LeadStatusLost,
	} {
		if !IsValidStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}
	if IsValidStatus("pending") {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(LeadStatusConverted) || !IsTerminal(LeadStatusLost) {
		t.Fatal("expected converted and lost to be terminal")
	}
	for _, status := range []string{LeadStatusNew, LeadStatusAssigned, LeadStatusRejected, LeadStatusReassigned} {
		if IsTerminal(status) {
			t.Fatalf("expected %q not to be terminal", status)
		}
	}
}

func TestDistributable(t *testing.T) {
	if !Distributable(LeadStatusNew) {
		t.Fatal("expected new leads to be distributable")
	}
	for _, status := range []string{LeadStatusAssigned, LeadStatusRejected, LeadStatusReassigned, LeadStatusConverted, LeadStatusLost} {
		if Distributable(status) {
			t.Fatalf("expected %q not to be distributable", status)
		}
	}
}
