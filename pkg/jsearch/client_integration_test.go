package jsearch

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestSearchIntegration(t *testing.T) {
	apiKey := os.Getenv("RAPIDAPI_KEY")
	if apiKey == "" {
		t.Skip("RAPIDAPI_KEY must be set to run this test")
	}

	client, err := NewClient(Config{APIKey: apiKey})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	postings, err := client.Search(ctx, SearchParams{
		Query:   "data science",
		Country: "PE",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(postings) == 0 {
		t.Log("JSearch returned zero postings; check query or credentials")
		return
	}

	for i, p := range postings {
		if i >= 5 {
			break
		}
		t.Logf("Result %d: %s @ %s (%s)", i+1, p.JobTitle, p.EmployerName, p.JobCity)
	}
	t.Logf("JSearch returned %d postings", len(postings))
}
