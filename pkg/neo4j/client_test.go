package neo4j

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestNewClientRequiresURI(t *testing.T) {
	if _, err := NewClient(Config{Username: "neo4j", Password: "x"}); err == nil {
		t.Fatalf("expected error without uri")
	}
}

func TestNewClientRejectsUnknownScheme(t *testing.T) {
	_, err := NewClient(Config{URI: "ftp://localhost:7687", Username: "neo4j", Password: "x"})
	if err == nil || !strings.Contains(err.Error(), "create driver") {
		t.Fatalf("expected driver creation error, got %v", err)
	}
}

func TestHelpersIntegration(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	user := os.Getenv("NEO4J_USERNAME")
	pass := os.Getenv("NEO4J_PASSWORD")
	if uri == "" || user == "" || pass == "" {
		t.Skip("NEO4J_URI, NEO4J_USERNAME and NEO4J_PASSWORD must be set to run this test")
	}

	client, err := NewClient(Config{URI: uri, Username: user, Password: pass, Database: os.Getenv("NEO4J_DATABASE")})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	defer func() { _ = client.Close(ctx) }()

	stmt := `CREATE CONSTRAINT helper_check_unique IF NOT EXISTS FOR (n:HelperCheck) REQUIRE n.key IS UNIQUE`
	// applying twice must be a no-op the second time
	if err := EnsureSchema(ctx, client, stmt, stmt); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	key := "k-" + time.Now().Format("150405.000000")
	_, err = Write(ctx, client, func(tx neo4j.ManagedTransaction) (struct{}, error) {
		return struct{}{}, Exec(ctx, tx, `MERGE (:HelperCheck {key: $key})`, map[string]any{"key": key})
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer func() {
		_, _ = Write(ctx, client, func(tx neo4j.ManagedTransaction) (struct{}, error) {
			return struct{}{}, Exec(ctx, tx, `MATCH (n:HelperCheck {key: $key}) DELETE n`, map[string]any{"key": key})
		})
	}()

	n, err := Read(ctx, client, func(tx neo4j.ManagedTransaction) (int64, error) {
		return Single[int64](ctx, tx, `MATCH (n:HelperCheck {key: $key}) RETURN count(n) AS n`, map[string]any{"key": key}, "n")
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}
