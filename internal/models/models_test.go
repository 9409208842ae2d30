package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCandidate(t *testing.T) {
	t.Run("MissingFields", func(t *testing.T) {
		tests := []struct {
			name string
			c    Candidate
			want []string
		}{
			{
				name: "complete",
				c:    Candidate{CompanyName: "Acme", JobTitle: "Engineer", JobLink: "https://x.test/1"},
				want: nil,
			},
			{
				name: "all missing",
				c:    Candidate{Status: "Applied"},
				want: []string{"companyName", "jobTitle", "jobLink"},
			},
			{
				name: "whitespace only counts as missing",
				c:    Candidate{CompanyName: "  ", JobTitle: "Engineer", JobLink: "https://x.test/1"},
				want: []string{"companyName"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := tt.c.MissingFields()
				if strings.Join(got, ",") != strings.Join(tt.want, ",") {
					t.Errorf("MissingFields() = %v, want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("Record And Back", func(t *testing.T) {
		c := Candidate{
			ID:          "abc",
			CompanyName: "Acme",
			JobTitle:    "Engineer",
			JobLink:     "https://x.test/1",
			Status:      "Applied",
		}
		r := c.Record("alice")
		if r.User != "alice" || r.ID != "abc" || r.CompanyName != "Acme" {
			t.Errorf("unexpected record: %+v", r)
		}
		if back := CandidateOf(r); back != c {
			t.Errorf("CandidateOf() = %+v, want %+v", back, c)
		}
	})

	t.Run("Trimmed", func(t *testing.T) {
		c := Candidate{CompanyName: " Acme ", JobLink: "\thttps://x.test/1\n"}.Trimmed()
		if c.CompanyName != "Acme" || c.JobLink != "https://x.test/1" {
			t.Errorf("unexpected trimmed candidate: %+v", c)
		}
	})

	t.Run("Scraper JSON Shape", func(t *testing.T) {
		payload := `{"applicationDate":"2025-01-02","countryName":"","companyName":"Acme","recruiter":"",` +
			`"jobTitle":"Engineer","jobLink":"https://x.test/1","status":"Applied","responseRemarks":""}`
		var c Candidate
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			t.Fatalf("failed to decode candidate: %v", err)
		}
		if c.CompanyName != "Acme" || c.ApplicationDate != "2025-01-02" || c.ID != "" {
			t.Errorf("unexpected candidate: %+v", c)
		}
	})
}

func TestJobRecordJSON(t *testing.T) {
	r := &JobRecord{ID: "1", User: "alice", CompanyName: "Acme"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("failed to marshal record: %v", err)
	}
	if strings.Contains(string(data), "updatedAt") {
		t.Errorf("zero timestamps should be omitted: %s", data)
	}
	if r.Key() != "1" {
		t.Errorf("expected key 1, got %s", r.Key())
	}
	if len(r.SearchFields()) != 7 {
		t.Errorf("expected 7 search fields, got %d", len(r.SearchFields()))
	}
}

func TestJobIndex(t *testing.T) {
	for _, idx := range []JobIndex{IndexUser, IndexApplicationDate, IndexStatus, IndexJobLink} {
		if !idx.Valid() {
			t.Errorf("expected %s to be valid", idx)
		}
	}
	if JobIndex("company").Valid() {
		t.Error("expected unknown index to be invalid")
	}
}

func TestSession(t *testing.T) {
	if s := NewSession("  Alice "); s.User != "Alice" || !s.Valid() {
		t.Errorf("unexpected session: %+v", s)
	}
	if NewSession("   ").Valid() {
		t.Error("blank session should be invalid")
	}
}
