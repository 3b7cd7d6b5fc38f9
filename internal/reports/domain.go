// Package reports manages weekly client reports: drafted internally,
// optionally AI-assisted, approved into a client-ready state with a
// share link, then sent and archived. Client viewers only ever see
// reports that have been sent.
package reports

import (
	"context"
	"time"
)

// Status is the report lifecycle state.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusInternalReview Status = "internal_review"
	StatusClientReady    Status = "client_ready"
	StatusSent           Status = "sent"
	StatusArchived       Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInternalReview, StatusClientReady, StatusSent, StatusArchived:
		return true
	}
	return false
}

// ClientVisible reports whether a client-only viewer may see a report
// in this state.
func (s Status) ClientVisible() bool {
	return s == StatusSent || s == StatusArchived
}

// Sections is the structured report body.
type Sections struct {
	ExecSummary       []string       `json:"exec_summary"`
	KPIPerformance    map[string]any `json:"kpi_performance"`
	WhatShipped       []string       `json:"what_shipped"`
	Learnings         []string       `json:"learnings"`
	Decisions         []string       `json:"decisions"`
	NextWeekPlan      []string       `json:"next_week_plan"`
	RisksDependencies []string       `json:"risks_dependencies"`
}

// EmptySections returns a zero-value body with no nil collections.
func EmptySections() Sections {
	return Sections{
		ExecSummary:       []string{},
		KPIPerformance:    map[string]any{},
		WhatShipped:       []string{},
		Learnings:         []string{},
		Decisions:         []string{},
		NextWeekPlan:      []string{},
		RisksDependencies: []string{},
	}
}

// Report is one weekly report.
type Report struct {
	ID            string     `json:"id"`
	WorkspaceID   string     `json:"workspace_id"`
	WeekStart     time.Time  `json:"week_start"`
	WeekEnd       time.Time  `json:"week_end"`
	Status        Status     `json:"status"`
	Content       Sections   `json:"content"`
	AIDraft       string     `json:"ai_draft,omitempty"`
	IsAIGenerated bool       `json:"is_ai_generated"`
	ShareLink     string     `json:"share_link,omitempty"`
	OwnerID       string     `json:"owner_id"`
	ApprovedBy    string     `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListFilters narrows report listings.
type ListFilters struct {
	Status Status
}

// Repository persists weekly reports.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	Find(ctx context.Context, workspaceID, id string) (*Report, error)
	List(ctx context.Context, workspaceID string, filters ListFilters) ([]Report, error)
	Update(ctx context.Context, r *Report) error
}
