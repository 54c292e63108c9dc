package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/repository"
	leadsdomain "leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
)

func TestRejectReassignsToAnotherAgency(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	second := repo.addAgency("Bravo Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(first, domain.TerritoryZipcode, "75201", 0)
	repo.addTerritory(second, domain.TerritoryZipcode, "75201", 0)

	leadID := repo.addLead("75201", "roofing")
	initial, err := svc.DistributeLead(ctx, leadID)
	if err != nil || !initial.Success {
		t.Fatalf("expected initial assignment, got %+v err %v", initial, err)
	}
	assignedTo := initial.Assignment.AgencyID

	result, err := svc.Reject(ctx, leadID, assignedTo, "customer unreachable")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if !result.Reassigned || result.Assignment == nil {
		t.Fatalf("expected a replacement assignment, got %+v", result)
	}
	if result.Assignment.AgencyID == assignedTo {
		t.Fatal("expected the rejecting agency to be excluded from the rerun")
	}
	if result.Assignment.Reason != repository.ReasonReassigned {
		t.Fatalf("expected reassignment reason, got %q", result.Assignment.Reason)
	}

	if repo.agencies[assignedTo].currentLeads != 0 {
		t.Fatalf("expected rejecting agency counter released, got %d", repo.agencies[assignedTo].currentLeads)
	}

	history, err := svc.AssignmentHistory(ctx, leadID)
	if err != nil {
		t.Fatalf("assignment history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 assignment rows, got %d", len(history))
	}
	statuses := map[string]int{}
	for _, a := range history {
		statuses[a.Status]++
	}
	if statuses[repository.AssignmentActive] != 1 || statuses[repository.AssignmentReassigned] != 1 {
		t.Fatalf("expected one active and one reassigned row, got %v", statuses)
	}
}

func TestRejectExhaustionLeavesLeadRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	only := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(only, domain.TerritoryZipcode, "75201", 0)

	leadID := repo.addLead("75201", "roofing")
	if result, err := svc.DistributeLead(ctx, leadID); err != nil || !result.Success {
		t.Fatalf("expected initial assignment, got %+v err %v", result, err)
	}

	result, err := svc.Reject(ctx, leadID, only, "wrong fit")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if result.Reassigned {
		t.Fatal("expected no replacement with a single owner")
	}
	if result.Reason != domain.ReasonNoEligibleAgency {
		t.Fatalf("expected no_eligible_agency, got %q", result.Reason)
	}
	if repo.leads[leadID].Status != leadsdomain.LeadStatusRejected {
		t.Fatalf("expected lead to stay rejected, got %q", repo.leads[leadID].Status)
	}

	prior := repo.assignments[0]
	if prior.Status != repository.AssignmentRejected {
		t.Fatalf("expected the prior row to stay rejected, got %q", prior.Status)
	}
	if prior.Note == nil || *prior.Note != "wrong fit" {
		t.Fatal("expected the rejection note to be recorded")
	}
}

func TestRejectWithoutActiveAssignmentIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	leadID := repo.addLead("75201", "roofing")

	_, err := svc.Reject(context.Background(), leadID, agencyID, "")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

// capacityRacedRepo fails the replacement assignment for one agency with
// the capacity sentinel, simulating a lost guarded-increment race between
// the candidate snapshot and the write.
type capacityRacedRepo struct {
	*fakeRepo
	racedAgency uuid.UUID
}

func (r *capacityRacedRepo) Assign(ctx context.Context, params repository.AssignParams) (repository.Assignment, error) {
	if params.AgencyID == r.racedAgency {
		return repository.Assignment{}, domain.ErrCapacityExceeded
	}
	return r.fakeRepo.Assign(ctx, params)
}

func TestRejectReportsCapacityLossReason(t *testing.T) {
	repo := newFakeRepo()
	raced := &capacityRacedRepo{fakeRepo: repo}
	svc := newTestService(raced)
	ctx := context.Background()

	first := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	second := repo.addAgency("Bravo Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(first, domain.TerritoryZipcode, "75201", 0)
	repo.addTerritory(second, domain.TerritoryZipcode, "75201", 0)

	leadID := repo.addLead("75201", "roofing")
	initial, err := svc.DistributeLead(ctx, leadID)
	if err != nil || !initial.Success {
		t.Fatalf("expected initial assignment, got %+v err %v", initial, err)
	}
	assignedTo := initial.Assignment.AgencyID
	if assignedTo == first {
		raced.racedAgency = second
	} else {
		raced.racedAgency = first
	}

	result, err := svc.Reject(ctx, leadID, assignedTo, "customer unreachable")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if result.Reassigned {
		t.Fatalf("expected no replacement when the rerun loses capacity, got %+v", result)
	}
	if result.Reason != domain.ReasonCapacityExceeded {
		t.Fatalf("expected reason %q, got %q", domain.ReasonCapacityExceeded, result.Reason)
	}
	if repo.leads[leadID].Status != leadsdomain.LeadStatusRejected {
		t.Fatalf("expected lead to stay rejected, got %q", repo.leads[leadID].Status)
	}
}
