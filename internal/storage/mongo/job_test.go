package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
)

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestUpsertDocumentResetsSummarizedAndSetsInsertOnce(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := upsertDocument(domain.JobRecord{JobID: "x", Title: "Analyst", Summarized: true}, now)

	rawSet, ok := lookup(doc, "$set")
	if !ok {
		t.Fatalf("missing $set: %v", doc)
	}
	set := rawSet.(bson.D)

	if v, _ := lookup(set, "resumido"); v != false {
		t.Fatalf("resumido must be reset, got %v", v)
	}
	if v, _ := lookup(set, "job_title"); v != "Analyst" {
		t.Fatalf("job_title not set: %v", set)
	}
	if _, ok := lookup(set, "inserted_at"); ok {
		t.Fatalf("inserted_at must only be written on insert")
	}

	rawInsert, ok := lookup(doc, "$setOnInsert")
	if !ok {
		t.Fatalf("missing $setOnInsert: %v", doc)
	}
	if v, _ := lookup(rawInsert.(bson.D), "inserted_at"); v != now {
		t.Fatalf("inserted_at = %v, want %v", v, now)
	}
}
