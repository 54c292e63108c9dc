package domain

import "testing"

func TestGeographyIsEmpty(t *testing.T) {
	if !(Geography{}).IsEmpty() {
		t.Fatal("expected zero geography to be empty")
	}
	if !(Geography{Zipcode: "   "}).IsEmpty() {
		t.Fatal("expected whitespace-only geography to be empty")
	}
	if (Geography{State: "TX"}).IsEmpty() {
		t.Fatal("expected geography with a state not to be empty")
	}
}

func TestGeographyTerritoriesPrecedenceOrder(t *testing.T) {
	g := Geography{Zipcode: "75201", City: "Dallas", County: "Dallas County", State: "TX"}

	territories := g.Territories()
	if len(territories) != 4 {
		t.Fatalf("expected 4 territories, got %d", len(territories))
	}

	wantOrder := []TerritoryType{TerritoryZipcode, TerritoryCity, TerritoryCounty, TerritoryState}
	for i, want := range wantOrder {
		if territories[i].Type != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, territories[i].Type)
		}
	}
}

func TestGeographyMostSpecific(t *testing.T) {
	g := Geography{City: "Dallas", State: "TX"}

	territory, ok := g.MostSpecific()
	if !ok {
		t.Fatal("expected a most specific territory")
	}
	if territory.Type != TerritoryCity || territory.Value != "Dallas" {
		t.Fatalf("expected city Dallas, got %s %q", territory.Type, territory.Value)
	}

	if _, ok := (Geography{}).MostSpecific(); ok {
		t.Fatal("expected no territory for empty geography")
	}
}

func TestNewCursorKeyNormalizesIndustry(t *testing.T) {
	key := NewCursorKey(Territory{Type: TerritoryZipcode, Value: "75201"}, "  Roofing ")

	if key.Industry != "roofing" {
		t.Fatalf("expected normalized industry, got %q", key.Industry)
	}
	if key.TerritoryType != TerritoryZipcode || key.TerritoryValue != "75201" {
		t.Fatalf("unexpected territory in cursor key: %s %q", key.TerritoryType, key.TerritoryValue)
	}
}

func TestBenignAndReasonFor(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{ErrAlreadyAssigned, ReasonAlreadyAssigned},
		{ErrNoEligibleAgency, ReasonNoEligibleAgency},
		{ErrCapacityExceeded, ReasonCapacityExceeded},
	}

	for _, tc := range cases {
		if !Benign(tc.err) {
			t.Fatalf("expected %v to be benign", tc.err)
		}
		if got := ReasonFor(tc.err); got != tc.reason {
			t.Fatalf("ReasonFor(%v) = %q, want %q", tc.err, got, tc.reason)
		}
	}

	if Benign(nil) {
		t.Fatal("expected nil not to be benign")
	}
}
