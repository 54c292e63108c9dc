package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/repository"
	leadsdomain "leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
)

// fakeRepo is an in-memory Repository that mirrors the store's transition
// guards: conditional lead admission, the single-active-assignment rule,
// the guarded capacity counter, and the cursor compare-and-set. A mutex
// stands in for transaction isolation so concurrent callers see the same
// all-or-nothing behavior as the SQL.
type fakeRepo struct {
	mu          sync.Mutex
	leads       map[uuid.UUID]*repository.Lead
	agencies    map[uuid.UUID]*fakeAgency
	territories []fakeTerritory
	cursors     map[domain.CursorKey]uuid.UUID
	assignments []*repository.Assignment
}

type fakeAgency struct {
	id                 uuid.UUID
	name               string
	industry           string
	subscriptionStatus string
	maxLeads           *int
	currentLeads       int
}

type fakeTerritory struct {
	agencyID uuid.UUID
	ttype    domain.TerritoryType
	value    string
	priority int
	active   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:    make(map[uuid.UUID]*repository.Lead),
		agencies: make(map[uuid.UUID]*fakeAgency),
		cursors:  make(map[domain.CursorKey]uuid.UUID),
	}
}

func (f *fakeRepo) addLead(zipcode, industry string) uuid.UUID {
	id := uuid.New()
	f.leads[id] = &repository.Lead{
		ID:        id,
		Zipcode:   zipcode,
		Industry:  industry,
		Status:    leadsdomain.LeadStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return id
}

func (f *fakeRepo) addAgency(name, industry, subscriptionStatus string, maxLeads *int) uuid.UUID {
	id := uuid.New()
	f.agencies[id] = &fakeAgency{
		id:                 id,
		name:               name,
		industry:           industry,
		subscriptionStatus: subscriptionStatus,
		maxLeads:           maxLeads,
	}
	return id
}

func (f *fakeRepo) addTerritory(agencyID uuid.UUID, ttype domain.TerritoryType, value string, priority int) {
	f.territories = append(f.territories, fakeTerritory{
		agencyID: agencyID,
		ttype:    ttype,
		value:    value,
		priority: priority,
		active:   true,
	})
}

func (f *fakeRepo) activeAssignment(leadID uuid.UUID) *repository.Assignment {
	for _, a := range f.assignments {
		if a.LeadID == leadID && a.Status == repository.AssignmentActive {
			return a
		}
	}
	return nil
}

func (f *fakeRepo) GetLead(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return *lead, nil
}

func (f *fakeRepo) ListUnassignedLeadIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uuid.UUID, 0)
	for id, lead := range f.leads {
		if lead.Status == leadsdomain.LeadStatusNew {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return f.leads[ids[i]].CreatedAt.Before(f.leads[ids[j]].CreatedAt)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeRepo) resolve(geo domain.Geography, only *uuid.UUID) []domain.Candidate {
	candidates := make([]domain.Candidate, 0)
	for _, want := range geo.Territories() {
		for _, t := range f.territories {
			if !t.active || t.ttype != want.Type || !strings.EqualFold(t.value, want.Value) {
				continue
			}
			if only != nil && t.agencyID != *only {
				continue
			}
			agency := f.agencies[t.agencyID]
			candidates = append(candidates, domain.Candidate{
				AgencyID:           agency.id,
				AgencyName:         agency.name,
				Industry:           agency.industry,
				SubscriptionStatus: agency.subscriptionStatus,
				ActiveLeads:        agency.currentLeads,
				Capacity:           domain.CapacityFromPlan(agency.maxLeads),
				Territory:          domain.Territory{Type: t.ttype, Value: t.value},
				Priority:           t.priority,
			})
		}
	}
	return candidates
}

func (f *fakeRepo) ResolveOwners(_ context.Context, geo domain.Geography) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolve(geo, nil), nil
}

func (f *fakeRepo) ResolveAgencyOwnership(_ context.Context, agencyID uuid.UUID, geo domain.Geography) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolve(geo, &agencyID), nil
}

func (f *fakeRepo) ListAgencyCapacity(_ context.Context, ids []uuid.UUID) ([]repository.AgencyCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.AgencyCapacity, 0, len(ids))
	for _, id := range ids {
		agency, ok := f.agencies[id]
		if !ok {
			continue
		}
		out = append(out, repository.AgencyCapacity{
			AgencyID:           agency.id,
			Name:               agency.name,
			SubscriptionStatus: agency.subscriptionStatus,
			ActiveLeads:        agency.currentLeads,
			MaxLeads:           agency.maxLeads,
		})
	}
	return out, nil
}

func (f *fakeRepo) LastAssigned(_ context.Context, key domain.CursorKey) (*uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	last, ok := f.cursors[key]
	if !ok {
		return nil, nil
	}
	id := last
	return &id, nil
}

func (f *fakeRepo) Assign(_ context.Context, params repository.AssignParams) (repository.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[params.LeadID]
	if !ok {
		return repository.Assignment{}, apperr.NotFound("lead not found")
	}

	admitted := false
	for _, status := range params.ExpectedStatuses {
		if lead.Status == status {
			admitted = true
			break
		}
	}
	if !admitted || f.activeAssignment(params.LeadID) != nil {
		return repository.Assignment{}, domain.ErrAlreadyAssigned
	}

	agency, ok := f.agencies[params.AgencyID]
	if !ok {
		return repository.Assignment{}, apperr.NotFound("agency not found")
	}
	if agency.maxLeads != nil && agency.currentLeads >= *agency.maxLeads {
		return repository.Assignment{}, domain.ErrCapacityExceeded
	}

	// The store's cursor compare-and-set runs last in the transaction, so
	// the guard is checked after the admission and capacity guards here too.
	if params.CursorGuard != nil {
		if last, ok := f.cursors[params.CursorKey]; ok {
			expected := params.CursorGuard.LastAgencyID
			if expected == nil || *expected != last {
				return repository.Assignment{}, domain.ErrCursorConflict
			}
		}
	}

	agency.currentLeads++
	lead.Status = leadsdomain.LeadStatusAssigned
	agencyID := params.AgencyID
	lead.AssignedAgencyID = &agencyID

	assignment := &repository.Assignment{
		ID:         uuid.New(),
		LeadID:     params.LeadID,
		AgencyID:   params.AgencyID,
		Status:     repository.AssignmentActive,
		Reason:     params.Reason,
		AssignedAt: time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.assignments = append(f.assignments, assignment)
	f.cursors[params.CursorKey] = params.AgencyID

	return *assignment, nil
}

func (f *fakeRepo) RejectActive(_ context.Context, leadID, agencyID uuid.UUID, note string) (repository.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := f.activeAssignment(leadID)
	if active == nil || active.AgencyID != agencyID {
		return repository.Assignment{}, apperr.NotFound("no active assignment for this lead and agency")
	}

	active.Status = repository.AssignmentRejected
	if note != "" {
		n := note
		active.Note = &n
	}
	active.UpdatedAt = time.Now()

	lead := f.leads[leadID]
	lead.Status = leadsdomain.LeadStatusRejected
	lead.AssignedAgencyID = nil

	if agency, ok := f.agencies[agencyID]; ok && agency.currentLeads > 0 {
		agency.currentLeads--
	}

	return *active, nil
}

func (f *fakeRepo) MarkReassigned(_ context.Context, assignmentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.assignments {
		if a.ID == assignmentID && a.Status == repository.AssignmentRejected {
			a.Status = repository.AssignmentReassigned
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperr.NotFound("assignment not found")
}

func (f *fakeRepo) DistributionStats(_ context.Context, _ *domain.Territory) (repository.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var stats repository.Stats
	for _, a := range f.assignments {
		switch a.Status {
		case repository.AssignmentActive:
			stats.ActiveAssignments++
		case repository.AssignmentRejected:
			stats.Rejections++
		case repository.AssignmentReassigned:
			stats.Reassignments++
		}
	}
	for _, lead := range f.leads {
		if lead.Status == leadsdomain.LeadStatusNew {
			stats.UnassignedLeads++
		}
	}
	return stats, nil
}

func (f *fakeRepo) ListAssignmentsForLead(_ context.Context, leadID uuid.UUID) ([]repository.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Assignment, 0)
	for _, a := range f.assignments {
		if a.LeadID == leadID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)
