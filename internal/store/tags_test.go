package store

import (
	"context"
	"testing"
	"time"
)

func TestListTags_SortedDistinct(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "rick")
	seedArticle(t, db, "rick", "a", "A", "body", t0, "zebra", "alpha")
	seedArticle(t, db, "rick", "b", "B", "body", t0, "alpha", "mid")

	tags, err := db.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	want := []string{"alpha", "mid", "zebra"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i, w := range want {
		if tags[i] != w {
			t.Errorf("tags[%d] = %s, want %s", i, tags[i], w)
		}
	}
}

func TestListTags_Empty(t *testing.T) {
	db := testDB(t)
	tags, err := db.ListTags(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v, want empty", tags)
	}
}

func TestListTags_ContextCancelled(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	// A dead context surfaces promptly instead of burning retries.
	if _, err := db.ListTags(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
