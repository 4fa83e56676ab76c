package models

import "time"

// IssueStatus mirrors the issue_status enum in the database.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}

// Issue is a geo-tagged civic problem report owned by the user in ReportedBy.
type Issue struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	ImageURL    *string     `json:"image_url"`
	Status      IssueStatus `json:"status"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Address     string      `json:"address"`
	ReportedBy  int64       `json:"reported_by"`
	CreatedAt   time.Time   `json:"created_at"`
}
