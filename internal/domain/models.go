package domain

import (
	"encoding/json"
	"time"
)

// JobRecord is a normalized job posting as returned by the search API and
// stored in the job store. Field names mirror the upstream JSearch payload.
type JobRecord struct {
	JobID        string `json:"job_id" bson:"job_id"`
	Title        string `json:"job_title" bson:"job_title"`
	EmployerName string `json:"employer_name" bson:"employer_name"`
	Description  string `json:"job_description" bson:"job_description"`
	City         string `json:"job_city" bson:"job_city"`
	Country      string `json:"job_country" bson:"job_country"`
	ApplyLink    string `json:"job_apply_link" bson:"job_apply_link"`
	PostedAtUTC  string `json:"job_posted_at_datetime_utc" bson:"job_posted_at_datetime_utc"`
	Summarized   bool   `json:"resumido" bson:"resumido"`
}

// SearchQuery describes one call to the job search API
type SearchQuery struct {
	Query    string
	Location string   // ISO country code, e.g. "PE"
	Page     int      // 1-based
	Pages    int      // number of pages the API should merge
	Fields   []string // optional response field restriction
}

// UpsertResult reports the outcome of a batch upsert
type UpsertResult struct {
	TotalReceived int `json:"total_received"`
	NewlyInserted int `json:"newly_inserted"`
}

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model request to invoke one tool
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Message is one entry of a conversation thread.
// Assistant messages may carry ToolCalls; tool messages carry the
// observation for ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
