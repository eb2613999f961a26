package event

// Feed event reasons. Every reason invalidates the author's own cached
// timeline plus those of the author's followers.
const (
	ReasonMessagePosted  = "message.posted"
	ReasonMessageDeleted = "message.deleted"
	ReasonAccountDeleted = "account.deleted"
)

// FeedEvent signals that timelines sourced from AuthorID's messages are
// stale. FollowerIDs is captured at publish time because for
// account.deleted the follow edges are already gone when the worker runs.
type FeedEvent struct {
	Reason      string `json:"reason"`
	AuthorID    uint   `json:"author_id"`
	FollowerIDs []uint `json:"follower_ids"`
}
