package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStopAllRunsEveryComponentInOrder(t *testing.T) {
	var order []string
	first := Func(func(context.Context) error {
		order = append(order, "http")
		return errors.New("listener busy")
	})
	second := Func(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("expected a deadline")
		}
		order = append(order, "digest")
		return nil
	})

	err := StopAll(context.Background(), time.Second, first, nil, second)
	if err == nil || err.Error() != "listener busy" {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(order) != 2 || order[0] != "http" || order[1] != "digest" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestStopAllNoComponents(t *testing.T) {
	if err := StopAll(context.Background(), time.Second); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
