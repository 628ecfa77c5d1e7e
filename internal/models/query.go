package models

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UnlimitedLimit is the sentinel meaning "no page size limit".
const UnlimitedLimit = -1

// SortMode selects the total ordering applied before windowing.
type SortMode string

const (
	// SortRecent orders by last update, newest first, with the article
	// id as a deterministic tiebreak so pagination stays stable.
	SortRecent SortMode = "recent"
	// SortTitle orders lexicographically ascending by title.
	SortTitle SortMode = "title"
	// SortTagCount orders by number of attached tags, descending,
	// falling back to the recent rule on ties.
	SortTagCount SortMode = "tag_count"
)

// ParseSortMode maps a request parameter to a SortMode. The empty
// string selects the default ordering.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortRecent:
		return SortRecent, nil
	case SortTitle:
		return SortTitle, nil
	case SortTagCount:
		return SortTagCount, nil
	}
	return "", fmt.Errorf("sort: unknown mode %q", s)
}

// FeedMode selects how the candidate set is restricted by the social graph.
type FeedMode string

const (
	// FeedNone applies no social-graph restriction.
	FeedNone FeedMode = ""
	// FeedAnyFollowers keeps articles whose author has at least one follower.
	FeedAnyFollowers FeedMode = "any"
	// FeedFollowed keeps articles authored by accounts the viewer follows.
	FeedFollowed FeedMode = "followed"
)

// ParseFeedMode maps a request parameter to a FeedMode.
func ParseFeedMode(s string) (FeedMode, error) {
	switch FeedMode(s) {
	case FeedNone, FeedAnyFollowers, FeedFollowed:
		return FeedMode(s), nil
	}
	return "", fmt.Errorf("feed: unknown mode %q", s)
}

// Page is an offset/limit window. Limit may be UnlimitedLimit.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Validate rejects malformed windows before any storage is touched.
func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(UnlimitedLimit)),
		validation.Field(&p.Offset, validation.Min(0)),
	)
}

// ArticleQuery describes a listing request. Author and Tag filters are
// exact-match, case-sensitive, and conjunctive.
type ArticleQuery struct {
	Author string   `json:"author"`
	Tag    string   `json:"tag"`
	Sort   SortMode `json:"sort"`
	Page
}

// Validate checks the window and the sort mode.
func (q ArticleQuery) Validate() error {
	if err := q.Page.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&q,
		validation.Field(&q.Sort, validation.In(SortRecent, SortTitle, SortTagCount)),
	)
}

// SearchQuery describes a keyword search request.
type SearchQuery struct {
	Query string `json:"query"`
	Page
}

// Validate checks the window. An empty or all-whitespace query is
// valid and degenerates to "match all".
func (q SearchQuery) Validate() error {
	return q.Page.Validate()
}

// Keywords splits the query on whitespace and discards empty tokens.
// Duplicate tokens are kept: each occurrence counts once against the
// keyword counter.
func (q SearchQuery) Keywords() []string {
	return strings.Fields(q.Query)
}
