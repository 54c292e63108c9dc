package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
)

func TestBatchDistributeIsolatesFailures(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)

	good := repo.addLead("75201", "roofing")
	unowned := repo.addLead("99999", "roofing")
	missing := uuid.New()
	alsoGood := repo.addLead("75201", "roofing")

	result, err := svc.BatchDistribute(context.Background(),
		[]uuid.UUID{good, unowned, missing, alsoGood}, 10)
	if err != nil {
		t.Fatalf("batch distribute: %v", err)
	}

	if result.Total != 4 {
		t.Fatalf("expected total 4, got %d", result.Total)
	}
	if result.Successful != 2 || len(result.Assignments) != 2 {
		t.Fatalf("expected 2 successful assignments, got %d (%d rows)", result.Successful, len(result.Assignments))
	}
	if result.Failed != 2 || len(result.Errors) != 2 {
		t.Fatalf("expected 2 failures, got %d (%d rows)", result.Failed, len(result.Errors))
	}

	reasons := map[uuid.UUID]string{}
	for _, e := range result.Errors {
		reasons[e.LeadID] = e.Reason
	}
	if reasons[unowned] != domain.ReasonNoEligibleAgency {
		t.Fatalf("expected no_eligible_agency for the unowned zipcode, got %q", reasons[unowned])
	}
	if reasons[missing] == "" {
		t.Fatal("expected an error recorded for the unknown lead")
	}
}

func TestBatchDistributeSweepsUnassignedLeads(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)

	for i := 0; i < 3; i++ {
		repo.addLead("75201", "roofing")
	}

	result, err := svc.BatchDistribute(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("batch distribute: %v", err)
	}
	if result.Total != 3 || result.Successful != 3 {
		t.Fatalf("expected 3 swept and assigned, got total %d successful %d", result.Total, result.Successful)
	}
	if repo.agencies[agencyID].currentLeads != 3 {
		t.Fatalf("expected agency counter 3, got %d", repo.agencies[agencyID].currentLeads)
	}
}

func TestBatchDistributeHonorsLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)

	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, repo.addLead("75201", "roofing"))
	}

	result, err := svc.BatchDistribute(context.Background(), ids, 2)
	if err != nil {
		t.Fatalf("batch distribute: %v", err)
	}
	if result.Total != 2 || result.Successful != 2 {
		t.Fatalf("expected the batch capped at 2, got total %d successful %d", result.Total, result.Successful)
	}
}
