package service

import (
	"testing"
	"time"
)

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestNormalizeTodoUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("completed true sets timestamp", func(t *testing.T) {
		got := NormalizeTodoUpdate(TodoUpdate{Text: strPtr("X"), Completed: boolPtr(true)}, now)
		if !got.Completed {
			t.Fatalf("expected completed")
		}
		if got.CompletedAt == nil || *got.CompletedAt != now.UnixMilli() {
			t.Fatalf("expected completedAt=%d, got %v", now.UnixMilli(), got.CompletedAt)
		}
		if got.Text == nil || *got.Text != "X" {
			t.Fatalf("expected text passthrough")
		}
	})

	t.Run("completed false clears timestamp", func(t *testing.T) {
		got := NormalizeTodoUpdate(TodoUpdate{Text: strPtr("Y"), Completed: boolPtr(false)}, now)
		if got.Completed || got.CompletedAt != nil {
			t.Fatalf("expected pending todo, got %+v", got)
		}
		if got.Text == nil || *got.Text != "Y" {
			t.Fatalf("expected text passthrough")
		}
	})

	t.Run("completed absent clears timestamp", func(t *testing.T) {
		got := NormalizeTodoUpdate(TodoUpdate{}, now)
		if got.Completed || got.CompletedAt != nil || got.Text != nil {
			t.Fatalf("expected empty pending changes, got %+v", got)
		}
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		for _, in := range []TodoUpdate{
			{Text: strPtr("X"), Completed: boolPtr(true)},
			{Completed: boolPtr(false)},
			{},
		} {
			first := NormalizeTodoUpdate(in, now)
			second := NormalizeTodoUpdate(TodoUpdate{Text: first.Text, Completed: boolPtr(first.Completed)}, now)
			if first.Completed != second.Completed {
				t.Fatalf("completed changed: %v -> %v", first.Completed, second.Completed)
			}
			if (first.CompletedAt == nil) != (second.CompletedAt == nil) {
				t.Fatalf("completedAt nullability changed")
			}
			if first.CompletedAt != nil && *first.CompletedAt != *second.CompletedAt {
				t.Fatalf("completedAt changed: %d -> %d", *first.CompletedAt, *second.CompletedAt)
			}
			if first.Text != second.Text {
				t.Fatalf("text pointer changed")
			}
		}
	})
}
