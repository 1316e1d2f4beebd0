package handlers

import (
	"testing"
	"time"

	"umedia/models"
)

func TestChunkIDsPartition(t *testing.T) {
	ids := make([]int, 35)
	for i := range ids {
		ids[i] = i
	}

	chunks := chunkIDs(ids, inQueryLimit)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 35 ids, got %d", len(chunks))
	}
	if len(chunks[0]) != 30 || len(chunks[1]) != 5 {
		t.Errorf("expected sizes 30 and 5, got %d and %d", len(chunks[0]), len(chunks[1]))
	}

	seen := make(map[int]bool)
	for _, chunk := range chunks {
		if len(chunk) > inQueryLimit {
			t.Errorf("chunk exceeds limit: %d", len(chunk))
		}
		for _, id := range chunk {
			if seen[id] {
				t.Errorf("id %d appears in more than one chunk", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != len(ids) {
		t.Errorf("chunks cover %d ids, want %d", len(seen), len(ids))
	}
}

func TestChunkIDsExactMultiple(t *testing.T) {
	ids := make([]string, 60)
	chunks := chunkIDs(ids, inQueryLimit)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 60 ids, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) != 30 {
			t.Errorf("chunk %d has %d ids, want 30", i, len(chunk))
		}
	}
}

func TestChunkIDsEmpty(t *testing.T) {
	if chunks := chunkIDs([]string{}, inQueryLimit); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestDedupePostsFirstWins(t *testing.T) {
	posts := []models.Post{
		{PostID: "a", Title: "first"},
		{PostID: "b", Title: "second"},
		{PostID: "a", Title: "duplicate"},
		{PostID: "c", Title: "third"},
	}

	out := dedupePosts(posts)
	if len(out) != 3 {
		t.Fatalf("expected 3 posts after dedup, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Errorf("dedup kept %q for id a, want the first occurrence", out[0].Title)
	}
	if out[1].PostID != "b" || out[2].PostID != "c" {
		t.Errorf("dedup changed relative order: %v", []string{out[0].PostID, out[1].PostID, out[2].PostID})
	}
}

func TestSortPostsDesc(t *testing.T) {
	posts := []models.Post{
		{PostID: "old", CreatedAt: 1000},
		{PostID: "new", CreatedAt: 3000},
		{PostID: "mid", CreatedAt: 2000},
	}

	sortPostsDesc(posts)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if posts[i].PostID != id {
			t.Errorf("position %d: got %s, want %s", i, posts[i].PostID, id)
		}
	}
}

func TestSortPostsDescZeroTimestampSortsAsNow(t *testing.T) {
	old := time.Now().Add(-time.Hour).UnixMilli()
	posts := []models.Post{
		{PostID: "old", CreatedAt: old},
		{PostID: "pending", CreatedAt: 0},
	}

	sortPostsDesc(posts)

	if posts[0].PostID != "pending" {
		t.Errorf("post with unresolved timestamp should sort first, got %s", posts[0].PostID)
	}
}
