package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Status is the canonical submission lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusSent     Status = "sent"
	StatusDeleted  Status = "deleted"
)

// ParseStatus collapses the spellings seen on the wire into a Status.
// "confirmed" is the same state as "sent"; anything unknown is pending.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return StatusApproved
	case "sent", "confirmed":
		return StatusSent
	case "deleted":
		return StatusDeleted
	default:
		return StatusPending
	}
}

// DisplayName returns the label shown to reviewers.
func (s Status) DisplayName() string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusSent:
		return "Sent"
	case StatusDeleted:
		return "Deleted"
	default:
		return "Pending"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDeleted
}

// UnmarshalJSON normalises the incoming status string.
func (s *Status) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = StatusPending
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// Action is a reviewer command applied to a submission.
type Action string

const (
	ActionApprove Action = "approve"
	ActionSend    Action = "send"
	ActionDelete  Action = "delete"
)

// ParseAction accepts "confirm" as an alias for send.
func ParseAction(raw string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approve":
		return ActionApprove, true
	case "send", "confirm":
		return ActionSend, true
	case "delete":
		return ActionDelete, true
	}
	return "", false
}

// Tab is a dashboard status filter. TabAll spans every status.
type Tab string

const (
	TabPending  Tab = "pending"
	TabApproved Tab = "approved"
	TabSent     Tab = "sent"
	TabAll      Tab = "all"
)

// Tabs lists the dashboard filters in display order.
var Tabs = []Tab{TabPending, TabApproved, TabSent, TabAll}

// ParseTab recognises a tab name case-insensitively; "confirmed" maps to the sent tab.
func ParseTab(raw string) (Tab, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return TabPending, true
	case "approved":
		return TabApproved, true
	case "sent", "confirmed":
		return TabSent, true
	case "all":
		return TabAll, true
	}
	return "", false
}

// Title is the table heading for the tab.
func (t Tab) Title() string {
	if t == TabAll {
		return "All Submissions"
	}
	return Status(t).DisplayName() + " Submissions"
}

// Includes reports whether a record with status s belongs in the tab.
func (t Tab) Includes(s Status, showDeleted bool) bool {
	if t == TabAll {
		return showDeleted || s != StatusDeleted
	}
	return Status(t) == s
}
