package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"warbler/internal/model"
)

func newSocialFixture() (*memState, *SocialService, *fakeFeedCache) {
	state := newMemState()
	cache := newFakeFeedCache()
	svc := NewSocialService(memUsers{state}, memMessages{state}, memFollows{state}, memLikes{state}, cache)
	return state, svc, cache
}

func seedUser(t *testing.T, state *memState, username string) uint {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, memUsers{state}.Create(user))
	return user.ID
}

func seedMessage(t *testing.T, state *memState, userID uint, text string, at time.Time) uint {
	t.Helper()
	message := &model.Message{UserID: userID, Text: text, CreatedAt: at}
	require.NoError(t, memMessages{state}.Create(message))
	return message.ID
}

func TestFollowIsIdempotent(t *testing.T) {
	state, svc, _ := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")

	require.NoError(t, svc.Follow(ctx, u1, u2))
	require.NoError(t, svc.Follow(ctx, u1, u2))
	require.Len(t, state.follows, 1)
}

func TestFollowRejectsSelf(t *testing.T) {
	state, svc, _ := newSocialFixture()
	u1 := seedUser(t, state, "u1")

	err := svc.Follow(context.Background(), u1, u1)
	require.ErrorIs(t, err, ErrSelfFollow)
	require.Empty(t, state.follows)
}

func TestFollowUnknownUser(t *testing.T) {
	state, svc, _ := newSocialFixture()
	u1 := seedUser(t, state, "u1")

	err := svc.Follow(context.Background(), u1, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnfollowMissingEdge(t *testing.T) {
	state, svc, _ := newSocialFixture()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")

	err := svc.Unfollow(context.Background(), u1, u2)
	require.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollowInvalidatesOwnFeed(t *testing.T) {
	state, svc, cache := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")
	cache.feeds[u1] = []model.Message{{ID: 42}}

	require.NoError(t, svc.Follow(ctx, u1, u2))
	require.NotContains(t, cache.feeds, u1)
	require.True(t, cache.dirty[u1])
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	state, svc, _ := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")
	m1 := seedMessage(t, state, u2, "hello", time.Now())

	liked, err := svc.ToggleLike(ctx, u1, m1)
	require.NoError(t, err)
	require.True(t, liked)
	require.Len(t, state.likes, 1)

	liked, err = svc.ToggleLike(ctx, u1, m1)
	require.NoError(t, err)
	require.False(t, liked)
	require.Empty(t, state.likes)
}

func TestToggleLikeOwnMessageForbidden(t *testing.T) {
	state, svc, _ := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	m0 := seedMessage(t, state, u1, "mine", time.Now())

	_, err := svc.ToggleLike(ctx, u1, m0)
	require.ErrorIs(t, err, ErrOwnMessage)
	require.Empty(t, state.likes)

	// Still forbidden when an edge somehow exists.
	state.likes[[2]uint{u1, m0}] = true
	_, err = svc.ToggleLike(ctx, u1, m0)
	require.ErrorIs(t, err, ErrOwnMessage)
}

func TestToggleLikeUnknownMessage(t *testing.T) {
	state, svc, _ := newSocialFixture()
	u1 := seedUser(t, state, "u1")

	_, err := svc.ToggleLike(context.Background(), u1, 999)
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func TestFollowerAndFollowingListings(t *testing.T) {
	state, svc, _ := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")
	u3 := seedUser(t, state, "u3")

	require.NoError(t, svc.Follow(ctx, u1, u2))
	require.NoError(t, svc.Follow(ctx, u3, u2))

	followers, err := svc.Followers(u2)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	following, err := svc.Following(u1)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, "u2", following[0].Username)

	_, err = svc.Followers(999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLikedMessagesListing(t *testing.T) {
	state, svc, _ := newSocialFixture()
	ctx := context.Background()
	u1 := seedUser(t, state, "u1")
	u2 := seedUser(t, state, "u2")
	m1 := seedMessage(t, state, u2, "first", time.Now().Add(-time.Minute))
	m2 := seedMessage(t, state, u2, "second", time.Now())

	_, err := svc.ToggleLike(ctx, u1, m1)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, u1, m2)
	require.NoError(t, err)

	liked, err := svc.LikedMessages(u1)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	require.Equal(t, m2, liked[0].ID)
	require.Equal(t, m1, liked[1].ID)
}
