package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/repository"
	"leadmarket_backend/internal/distribution/transport"
	"leadmarket_backend/internal/events"
	leadsdomain "leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/logger"
)

func newTestService(repo repository.Repository) *Service {
	log := logger.New("test")
	return New(repo, events.NewInMemoryBus(log), log)
}

func TestDistributeLeadRoundRobinFairness(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencies := []uuid.UUID{
		repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil),
		repo.addAgency("Bravo Roofing", "roofing", domain.SubscriptionActive, nil),
		repo.addAgency("Charlie Roofing", "roofing", domain.SubscriptionActive, nil),
	}
	for _, id := range agencies {
		repo.addTerritory(id, domain.TerritoryZipcode, "75201", 0)
	}

	counts := make(map[uuid.UUID]int)
	for i := 0; i < 9; i++ {
		leadID := repo.addLead("75201", "roofing")
		result, err := svc.DistributeLead(context.Background(), leadID)
		if err != nil {
			t.Fatalf("distribute lead %d: %v", i, err)
		}
		if !result.Success || result.Assignment == nil {
			t.Fatalf("expected success for lead %d, got reason %q", i, result.Reason)
		}
		counts[result.Assignment.AgencyID]++
	}

	for _, id := range agencies {
		if counts[id] != 3 {
			t.Fatalf("expected 3 assignments for agency %s over 9 leads, got %d", id, counts[id])
		}
		if repo.agencies[id].currentLeads != 3 {
			t.Fatalf("expected counter 3 for agency %s, got %d", id, repo.agencies[id].currentLeads)
		}
	}
}

func TestDistributeLeadAlreadyAssignedIsBenign(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)
	leadID := repo.addLead("75201", "roofing")

	first, err := svc.DistributeLead(context.Background(), leadID)
	if err != nil || !first.Success {
		t.Fatalf("expected first distribution to succeed, got result %+v err %v", first, err)
	}

	second, err := svc.DistributeLead(context.Background(), leadID)
	if err != nil {
		t.Fatalf("expected benign outcome, got error %v", err)
	}
	if second.Success || second.Reason != domain.ReasonAlreadyAssigned {
		t.Fatalf("expected already_assigned failure, got %+v", second)
	}

	active := 0
	for _, a := range repo.assignments {
		if a.LeadID == leadID && a.Status == repository.AssignmentActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active assignment, got %d", active)
	}
}

func TestDistributeLeadNoEligibleAgency(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Plumbing", "plumbing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)
	leadID := repo.addLead("75201", "roofing")

	result, err := svc.DistributeLead(context.Background(), leadID)
	if err != nil {
		t.Fatalf("expected benign outcome, got error %v", err)
	}
	if result.Success || result.Reason != domain.ReasonNoEligibleAgency {
		t.Fatalf("expected no_eligible_agency failure, got %+v", result)
	}
	if repo.leads[leadID].Status != leadsdomain.LeadStatusNew {
		t.Fatalf("expected lead to remain new, got %q", repo.leads[leadID].Status)
	}
}

func TestDistributeLeadMissingGeographyIsValidationError(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	leadID := repo.addLead("", "roofing")

	_, err := svc.DistributeLead(context.Background(), leadID)
	if err == nil {
		t.Fatal("expected validation error for lead without geography")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", apperr.GetKind(err))
	}
}

func TestDistributeLeadUnknownLeadIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.DistributeLead(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDistributeLeadSkipsAgenciesAtCapacity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	one := 1
	cappedID := repo.addAgency("Capped Roofing", "roofing", domain.SubscriptionActive, &one)
	openID := repo.addAgency("Open Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(cappedID, domain.TerritoryZipcode, "75201", 0)
	repo.addTerritory(openID, domain.TerritoryZipcode, "75201", 0)
	repo.agencies[cappedID].currentLeads = 1

	for i := 0; i < 3; i++ {
		leadID := repo.addLead("75201", "roofing")
		result, err := svc.DistributeLead(context.Background(), leadID)
		if err != nil || !result.Success {
			t.Fatalf("distribute lead %d: result %+v err %v", i, result, err)
		}
		if result.Assignment.AgencyID != openID {
			t.Fatalf("expected the agency with room, got %s", result.Assignment.AgencyID)
		}
	}
}

func TestDistributeLeadCapacityExhaustionIsBenign(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	one := 1
	agencyID := repo.addAgency("Capped Roofing", "roofing", domain.SubscriptionActive, &one)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)

	first, err := svc.DistributeLead(context.Background(), repo.addLead("75201", "roofing"))
	if err != nil || !first.Success {
		t.Fatalf("expected first lead to assign, got %+v err %v", first, err)
	}

	second, err := svc.DistributeLead(context.Background(), repo.addLead("75201", "roofing"))
	if err != nil {
		t.Fatalf("expected benign outcome, got error %v", err)
	}
	if second.Success || second.Reason != domain.ReasonNoEligibleAgency {
		t.Fatalf("expected no_eligible_agency once capacity is gone, got %+v", second)
	}
}

func TestDistributeLeadPicksAgencyAfterCursor(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyA := repo.addAgency("Agency A", "roofing", domain.SubscriptionActive, nil)
	agencyB := repo.addAgency("Agency B", "roofing", domain.SubscriptionActive, nil)
	agencyC := repo.addAgency("Agency C", "roofing", domain.SubscriptionActive, nil)
	for _, id := range []uuid.UUID{agencyA, agencyB, agencyC} {
		repo.addTerritory(id, domain.TerritoryZipcode, "75201", 0)
	}

	ordered := domain.OrderCandidates(repo.resolve(domain.Geography{Zipcode: "75201"}, nil))
	key := domain.NewCursorKey(domain.Territory{Type: domain.TerritoryZipcode, Value: "75201"}, "roofing")
	repo.cursors[key] = ordered[0].AgencyID

	result, err := svc.DistributeLead(context.Background(), repo.addLead("75201", "roofing"))
	if err != nil || !result.Success {
		t.Fatalf("expected assignment, got %+v err %v", result, err)
	}
	if result.Assignment.AgencyID != ordered[1].AgencyID {
		t.Fatalf("expected the agency after the cursor, got %s want %s",
			result.Assignment.AgencyID, ordered[1].AgencyID)
	}
	if repo.cursors[key] != ordered[1].AgencyID {
		t.Fatal("expected the cursor to advance to the chosen agency")
	}
}

func TestDistributeLeadFallsBackToBroaderTerritory(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	stateID := repo.addAgency("Statewide Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(stateID, domain.TerritoryState, "TX", 0)

	leadID := repo.addLead("75201", "roofing")
	repo.leads[leadID].State = "TX"

	result, err := svc.DistributeLead(context.Background(), leadID)
	if err != nil || !result.Success {
		t.Fatalf("expected state-level owner to receive the lead, got %+v err %v", result, err)
	}
	if result.Assignment.AgencyID != stateID {
		t.Fatalf("expected statewide agency, got %s", result.Assignment.AgencyID)
	}
}

func TestAssignToAgencyValidatesOwnershipEligibilityAndCapacity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	outsiderID := repo.addAgency("Outsider Roofing", "roofing", domain.SubscriptionActive, nil)
	if _, err := svc.AssignToAgency(ctx, repo.addLead("75201", "roofing"), outsiderID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for agency without the territory, got %v", err)
	}

	wrongIndustryID := repo.addAgency("Plumbing Co", "plumbing", domain.SubscriptionActive, nil)
	repo.addTerritory(wrongIndustryID, domain.TerritoryZipcode, "75201", 0)
	if _, err := svc.AssignToAgency(ctx, repo.addLead("75201", "roofing"), wrongIndustryID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for wrong industry, got %v", err)
	}

	zero := 0
	fullID := repo.addAgency("Full Roofing", "roofing", domain.SubscriptionActive, &zero)
	repo.addTerritory(fullID, domain.TerritoryZipcode, "75201", 0)
	if _, err := svc.AssignToAgency(ctx, repo.addLead("75201", "roofing"), fullID); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for agency at capacity, got %v", err)
	}

	okID := repo.addAgency("Ready Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(okID, domain.TerritoryZipcode, "75202", 0)
	assignment, err := svc.AssignToAgency(ctx, repo.addLead("75202", "roofing"), okID)
	if err != nil {
		t.Fatalf("expected direct assignment to succeed: %v", err)
	}
	if assignment.AgencyID != okID || assignment.Reason != repository.ReasonManual {
		t.Fatalf("expected manual assignment to %s, got %+v", okID, assignment)
	}
}

func TestAssignToAgencyRejectsAssignedLead(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	agencyID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(agencyID, domain.TerritoryZipcode, "75201", 0)
	leadID := repo.addLead("75201", "roofing")
	repo.leads[leadID].Status = leadsdomain.LeadStatusAssigned

	_, err := svc.AssignToAgency(context.Background(), leadID, agencyID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for an already assigned lead, got %v", err)
	}
}

// stalledCursorRepo holds cursor reads until two callers have arrived, so
// both distributions base their selection on the same observed value.
type stalledCursorRepo struct {
	*fakeRepo
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (r *stalledCursorRepo) LastAssigned(ctx context.Context, key domain.CursorKey) (*uuid.UUID, error) {
	r.mu.Lock()
	r.arrived++
	if r.arrived == 2 {
		close(r.release)
	}
	r.mu.Unlock()
	<-r.release
	return r.fakeRepo.LastAssigned(ctx, key)
}

func TestConcurrentDistributionsRotateAcrossAgencies(t *testing.T) {
	repo := newFakeRepo()
	stalled := &stalledCursorRepo{fakeRepo: repo, release: make(chan struct{})}
	svc := newTestService(stalled)

	alphaID := repo.addAgency("Alpha Roofing", "roofing", domain.SubscriptionActive, nil)
	bravoID := repo.addAgency("Bravo Roofing", "roofing", domain.SubscriptionActive, nil)
	repo.addTerritory(alphaID, domain.TerritoryZipcode, "75201", 0)
	repo.addTerritory(bravoID, domain.TerritoryZipcode, "75201", 0)

	leadIDs := []uuid.UUID{
		repo.addLead("75201", "roofing"),
		repo.addLead("75201", "roofing"),
	}

	results := make([]transport.DistributeResponse, len(leadIDs))
	errs := make([]error, len(leadIDs))
	var wg sync.WaitGroup
	for i, leadID := range leadIDs {
		wg.Add(1)
		go func(i int, leadID uuid.UUID) {
			defer wg.Done()
			results[i], errs[i] = svc.DistributeLead(context.Background(), leadID)
		}(i, leadID)
	}
	wg.Wait()

	assigned := make(map[uuid.UUID]bool)
	for i := range leadIDs {
		if errs[i] != nil {
			t.Fatalf("concurrent distribute %d: %v", i, errs[i])
		}
		if !results[i].Success || results[i].Assignment == nil {
			t.Fatalf("expected success for concurrent distribute %d, got reason %q", i, results[i].Reason)
		}
		assigned[results[i].Assignment.AgencyID] = true
	}

	if len(assigned) != 2 {
		t.Fatalf("expected the concurrent assignments to land on both agencies, got %d distinct", len(assigned))
	}
	if repo.agencies[alphaID].currentLeads != 1 || repo.agencies[bravoID].currentLeads != 1 {
		t.Fatalf("expected one lead per agency, got alpha=%d bravo=%d",
			repo.agencies[alphaID].currentLeads, repo.agencies[bravoID].currentLeads)
	}
}
