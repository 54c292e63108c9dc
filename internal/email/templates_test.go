package email

import (
	"strings"
	"testing"
)

func TestRenderLeadTemplates(t *testing.T) {
	data := leadEmailData{
		Title:      "New lead assigned",
		Heading:    "You have a new lead",
		AgencyName: "Alpha Roofing",
		LeadName:   "Jane Doe",
		Industry:   "roofing",
		Location:   "75201",
	}

	for _, name := range []string{"lead_assigned.html", "lead_reassigned.html"} {
		body, err := renderEmailTemplate(name, data)
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		for _, want := range []string{data.AgencyName, data.LeadName, data.Industry, data.Location} {
			if !strings.Contains(body, want) {
				t.Fatalf("expected %s body to contain %q", name, want)
			}
		}
	}
}

func TestRenderEmailTemplateEscapesHTML(t *testing.T) {
	data := leadEmailData{
		Title:    "New lead assigned",
		Heading:  "You have a new lead",
		LeadName: "<script>alert(1)</script>",
	}

	body, err := renderEmailTemplate("lead_assigned.html", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("expected HTML in lead fields to be escaped")
	}
}
