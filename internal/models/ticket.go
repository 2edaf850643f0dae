package models

import "time"

// CreatedIssue is the subset of the Jira create-issue response we keep.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type TicketResult struct {
	RequestID      string    `json:"request_id"`
	IssueKey       string    `json:"issue_key"`
	IssueID        string    `json:"issue_id"`
	IssueURL       string    `json:"issue_url,omitempty"`
	Summary        string    `json:"summary"`
	RuleID         string    `json:"rule_id"`
	AgentName      string    `json:"agent_name"`
	AlertTimestamp string    `json:"alert_timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}
