package models

// Post ordering keys accepted by list queries. A "-" prefix means
// descending. The default ordering is newest first.
const (
	OrderCreatedAt  = "created_at"
	OrderUpdatedAt  = "updated_at"
	OrderLikesCount = "likes_count"

	DefaultPostOrdering = "-" + OrderCreatedAt
)

// PostFilter narrows and pages a post listing. Zero values mean "no
// constraint"; Published is a tri-state (nil = both drafts and published).
type PostFilter struct {
	CategorySlug string
	Published    *bool
	Search       string
	Ordering     string
	Limit        int
	Offset       int
}
