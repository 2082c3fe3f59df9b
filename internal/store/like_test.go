package store

import (
	"context"
	"testing"
)

func TestLikeStoreToggle(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	author := testUser(t, db, "like-toggle-author")
	reader := testUser(t, db, "like-toggle-reader")

	p := mustPost(t, db, author.ID, "Like Test", "store-test-like", true)

	// First toggle adds the like.
	liked, count, err := s.Toggle(context.Background(), p.ID, reader.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !liked || count != 1 {
		t.Fatalf("first toggle: got liked=%v count=%d, want true 1", liked, count)
	}

	// Second toggle removes it and restores the count.
	liked, count, err = s.Toggle(context.Background(), p.ID, reader.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if liked || count != 0 {
		t.Fatalf("second toggle: got liked=%v count=%d, want false 0", liked, count)
	}

	isLiked, err := s.IsLiked(context.Background(), p.ID, reader.ID)
	if err != nil {
		t.Fatalf("IsLiked: %v", err)
	}
	if isLiked {
		t.Error("membership should be gone after double toggle")
	}
}

func TestLikeStoreCountMultipleUsers(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	author := testUser(t, db, "like-count-author")
	a := testUser(t, db, "like-count-a")
	b := testUser(t, db, "like-count-b")

	p := mustPost(t, db, author.ID, "Like Count Test", "store-test-like-count", true)

	if _, _, err := s.Toggle(context.Background(), p.ID, a.ID); err != nil {
		t.Fatalf("Toggle a: %v", err)
	}
	if _, _, err := s.Toggle(context.Background(), p.ID, b.ID); err != nil {
		t.Fatalf("Toggle b: %v", err)
	}

	count, err := s.Count(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}
}
