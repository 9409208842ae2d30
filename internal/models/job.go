package models

import (
	"strings"
	"time"
)

// JobRecord is one tracked job application.
//
// ID, User and CreatedAt are fixed at the first insert. UpdatedAt changes on every write;
// a zero UpdatedAt sorts as the oldest possible instant.
type JobRecord struct {
	ID              string    `json:"id"`
	User            string    `json:"user"`
	ApplicationDate string    `json:"applicationDate"`
	CountryName     string    `json:"countryName"`
	CompanyName     string    `json:"companyName"`
	Recruiter       string    `json:"recruiter"`
	JobTitle        string    `json:"jobTitle"`
	JobLink         string    `json:"jobLink"`
	Status          string    `json:"status"`
	ResponseRemarks string    `json:"responseRemarks"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

var _ Model = (*JobRecord)(nil)

// Key returns the record ID.
func (j *JobRecord) Key() string { return j.ID }

// SearchFields returns the values a text search matches against, in display order.
func (j *JobRecord) SearchFields() []string {
	return []string{
		j.CompanyName,
		j.JobTitle,
		j.Status,
		j.CountryName,
		j.ResponseRemarks,
		j.Recruiter,
		j.JobLink,
	}
}

// Candidate is an unsaved job record as produced by the page scraper or a manual form.
//
// Every field is plain text and empty when unknown. A non-empty ID asks for an edit of that record.
type Candidate struct {
	ID              string `json:"id,omitempty"`
	ApplicationDate string `json:"applicationDate"`
	CountryName     string `json:"countryName"`
	CompanyName     string `json:"companyName"`
	Recruiter       string `json:"recruiter"`
	JobTitle        string `json:"jobTitle"`
	JobLink         string `json:"jobLink"`
	Status          string `json:"status"`
	ResponseRemarks string `json:"responseRemarks"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c Candidate) Trimmed() Candidate {
	return Candidate{
		ID:              strings.TrimSpace(c.ID),
		ApplicationDate: strings.TrimSpace(c.ApplicationDate),
		CountryName:     strings.TrimSpace(c.CountryName),
		CompanyName:     strings.TrimSpace(c.CompanyName),
		Recruiter:       strings.TrimSpace(c.Recruiter),
		JobTitle:        strings.TrimSpace(c.JobTitle),
		JobLink:         strings.TrimSpace(c.JobLink),
		Status:          strings.TrimSpace(c.Status),
		ResponseRemarks: strings.TrimSpace(c.ResponseRemarks),
	}
}

// MissingFields lists the required fields that are empty.
func (c Candidate) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(c.JobTitle) == "" {
		missing = append(missing, "jobTitle")
	}
	if strings.TrimSpace(c.JobLink) == "" {
		missing = append(missing, "jobLink")
	}
	return missing
}

// Record builds a JobRecord owned by user from the candidate's fields.
func (c Candidate) Record(user string) *JobRecord {
	return &JobRecord{
		ID:              c.ID,
		User:            user,
		ApplicationDate: c.ApplicationDate,
		CountryName:     c.CountryName,
		CompanyName:     c.CompanyName,
		Recruiter:       c.Recruiter,
		JobTitle:        c.JobTitle,
		JobLink:         c.JobLink,
		Status:          c.Status,
		ResponseRemarks: c.ResponseRemarks,
	}
}

// CandidateOf returns the editable fields of r as a Candidate.
func CandidateOf(r *JobRecord) Candidate {
	return Candidate{
		ID:              r.ID,
		ApplicationDate: r.ApplicationDate,
		CountryName:     r.CountryName,
		CompanyName:     r.CompanyName,
		Recruiter:       r.Recruiter,
		JobTitle:        r.JobTitle,
		JobLink:         r.JobLink,
		Status:          r.Status,
		ResponseRemarks: r.ResponseRemarks,
	}
}
