// Package domain defines the read-only records built from tracker responses
// and the error taxonomy shared by every remote operation.
//
// Records are constructed by the mapper in internal/jira and are not mutated
// afterwards. Optional values are pointers; nil means absent.
package domain

import "time"

// User represents a tracker account. Identity is AccountID.
type User struct {
	AccountID   string  `json:"account_id" yaml:"account_id"`
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Email       *string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Equal reports whether u and other refer to the same account.
func (u User) Equal(other User) bool {
	return u.AccountID == other.AccountID
}

// UnknownUser is the sentinel author used when a response omits one.
func UnknownUser() User {
	return User{AccountID: "", DisplayName: "Unknown"}
}

// IssueType represents an issue type such as Bug or Story.
type IssueType struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	IconURL *string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// Issue represents a tracker issue.
type Issue struct {
	Key         string     `json:"key" yaml:"key"`
	Summary     string     `json:"summary" yaml:"summary"`
	IssueType   IssueType  `json:"issue_type" yaml:"issue_type"`
	Status      string     `json:"status" yaml:"status"`
	Assignee    *User      `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter    *User      `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Labels      []string   `json:"labels" yaml:"labels"`
	FixVersions []string   `json:"fix_versions" yaml:"fix_versions"`
	Components  []string   `json:"components" yaml:"components"`
	Created     *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated     *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Comment represents a comment on an issue.
// Created is always set; the mapper substitutes the current time when the
// response carries no usable timestamp.
type Comment struct {
	ID      string     `json:"id" yaml:"id"`
	Author  User       `json:"author" yaml:"author"`
	Body    string     `json:"body" yaml:"body"`
	Created time.Time  `json:"created" yaml:"created"`
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Transition is a workflow step available from an issue's current status.
// ToStatus is the target status name, not its ID.
type Transition struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ToStatus string `json:"to_status" yaml:"to_status"`
}

// ChangeEvent is a single field change taken from an issue's changelog.
// A nil From or To means the field had no value on that side of the change.
type ChangeEvent struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Author    User      `json:"author" yaml:"author"`
	Field     string    `json:"field" yaml:"field"`
	From      *string   `json:"from,omitempty" yaml:"from,omitempty"`
	To        *string   `json:"to,omitempty" yaml:"to,omitempty"`
}
