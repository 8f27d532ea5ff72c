package jira

import (
	"strings"
	"time"

	"github.com/andywolf/jiralite/internal/adf"
	"github.com/andywolf/jiralite/internal/domain"
)

// now is the clock used for the documented "current time" fallbacks.
var now = time.Now

// object is a decoded JSON object. Lookups on a nil or mistyped value return
// zero values so that mapping never fails on unexpected shapes.
type object map[string]interface{}

func asObject(v interface{}) object {
	m, _ := v.(map[string]interface{})
	return object(m)
}

func (o object) str(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

func (o object) optStr(key string) *string {
	if s, ok := o[key].(string); ok {
		return &s
	}
	return nil
}

func (o object) obj(key string) object {
	return asObject(o[key])
}

func (o object) list(key string) []interface{} {
	l, _ := o[key].([]interface{})
	return l
}

// ParseUser maps a user object. A missing or non-object value yields nil.
func ParseUser(v interface{}) *domain.User {
	o := asObject(v)
	if len(o) == 0 {
		return nil
	}
	return &domain.User{
		AccountID:   o.str("accountId", ""),
		DisplayName: o.str("displayName", "Unknown"),
		Email:       o.optStr("emailAddress"),
	}
}

// ParseIssueType maps an issue type object.
func ParseIssueType(v interface{}) domain.IssueType {
	o := asObject(v)
	return domain.IssueType{
		ID:      o.str("id", ""),
		Name:    o.str("name", "Unknown"),
		IconURL: o.optStr("iconUrl"),
	}
}

// ParseIssue maps an issue object with its nested "fields".
func ParseIssue(v interface{}) domain.Issue {
	o := asObject(v)
	fields := o.obj("fields")

	issue := domain.Issue{
		Key:         o.str("key", ""),
		Summary:     fields.str("summary", ""),
		IssueType:   ParseIssueType(fields["issuetype"]),
		Status:      fields.obj("status").str("name", "Unknown"),
		Assignee:    ParseUser(fields["assignee"]),
		Reporter:    ParseUser(fields["reporter"]),
		Priority:    fields.obj("priority").optStr("name"),
		Labels:      stringList(fields.list("labels")),
		FixVersions: nameList(fields.list("fixVersions")),
		Components:  nameList(fields.list("components")),
		Created:     ParseTime(fields["created"]),
		Updated:     ParseTime(fields["updated"]),
	}

	if text, ok := adf.ExtractText(fields["description"]); ok {
		issue.Description = &text
	}

	return issue
}

// ParseComment maps a comment object. A missing author becomes the Unknown
// user, a missing body the empty string and a missing or unparsable creation
// time the current time.
func ParseComment(v interface{}) domain.Comment {
	o := asObject(v)

	c := domain.Comment{
		ID:      o.str("id", ""),
		Author:  domain.UnknownUser(),
		Updated: ParseTime(o["updated"]),
	}

	if author := ParseUser(o["author"]); author != nil {
		c.Author = *author
	}
	if body, ok := adf.ExtractText(o["body"]); ok {
		c.Body = body
	}
	if created := ParseTime(o["created"]); created != nil {
		c.Created = *created
	} else {
		c.Created = now()
	}

	return c
}

// ParseTransitions maps the "transitions" array of a transitions response.
func ParseTransitions(v interface{}) []domain.Transition {
	items := asObject(v).list("transitions")
	out := make([]domain.Transition, 0, len(items))
	for _, item := range items {
		t := asObject(item)
		out = append(out, domain.Transition{
			ID:       t.str("id", ""),
			Name:     t.str("name", ""),
			ToStatus: t.obj("to").str("name", "Unknown"),
		})
	}
	return out
}

// ParseChangelog flattens the changelog histories of an issue response into
// one event per changed field. Events of the same history share its author
// and timestamp; histories and their items keep source order.
func ParseChangelog(v interface{}) []domain.ChangeEvent {
	histories := asObject(v).obj("changelog").list("histories")

	var out []domain.ChangeEvent
	for _, h := range histories {
		history := asObject(h)

		author := domain.UnknownUser()
		if u := ParseUser(history["author"]); u != nil {
			author = *u
		}

		var ts time.Time
		if created := ParseTime(history["created"]); created != nil {
			ts = *created
		} else {
			ts = now()
		}

		for _, it := range history.list("items") {
			item := asObject(it)
			out = append(out, domain.ChangeEvent{
				Timestamp: ts,
				Author:    author,
				Field:     item.str("field", ""),
				From:      item.optStr("fromString"),
				To:        item.optStr("toString"),
			})
		}
	}

	if out == nil {
		out = []domain.ChangeEvent{}
	}
	return out
}

// timeLayouts covers RFC 3339 and the "+0000" offset form the tracker emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04-07:00",
}

// ParseTime parses an ISO 8601 timestamp carrying a zone offset. A trailing
// "Z" is read as "+00:00". Anything else, including values without an
// offset, yields nil.
func ParseTime(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func stringList(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// nameList maps an array of {"name": ...} objects to their names, skipping
// entries without a string name.
func nameList(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := asObject(item)["name"].(string); ok {
			out = append(out, name)
		}
	}
	return out
}
