package models

import (
	"reflect"
	"testing"
)

func TestPageValidate(t *testing.T) {
	if err := (Page{Limit: UnlimitedLimit, Offset: 0}).Validate(); err != nil {
		t.Errorf("unlimited sentinel should pass: %v", err)
	}
	if err := (Page{Limit: 0, Offset: 0}).Validate(); err != nil {
		t.Errorf("zero limit should pass: %v", err)
	}
	if err := (Page{Limit: -2, Offset: 0}).Validate(); err == nil {
		t.Error("limit below the sentinel should fail")
	}
	if err := (Page{Limit: 10, Offset: -1}).Validate(); err == nil {
		t.Error("negative offset should fail")
	}
}

func TestParseSortMode(t *testing.T) {
	if m, err := ParseSortMode(""); err != nil || m != SortRecent {
		t.Errorf("empty = (%v, %v), want recent default", m, err)
	}
	for _, s := range []string{"recent", "title", "tag_count"} {
		if _, err := ParseSortMode(s); err != nil {
			t.Errorf("ParseSortMode(%q): %v", s, err)
		}
	}
	if _, err := ParseSortMode("popularity"); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestParseFeedMode(t *testing.T) {
	for _, s := range []string{"", "any", "followed"} {
		if _, err := ParseFeedMode(s); err != nil {
			t.Errorf("ParseFeedMode(%q): %v", s, err)
		}
	}
	if _, err := ParseFeedMode("global"); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestSearchQueryKeywords(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"dragon", []string{"dragon"}},
		{"  dragon   train ", []string{"dragon", "train"}},
		{"a a", []string{"a", "a"}},
		{"", nil},
		{"   \t\n ", nil},
	}
	for _, c := range cases {
		got := SearchQuery{Query: c.query}.Keywords()
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Keywords(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}
