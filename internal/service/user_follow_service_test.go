package service

import (
	"CookingSecret/internal/model"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowSelfIsRejected(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("alice", model.RoleUser)

	_, err := e.follows.Toggle(context.Background(), u.ID, u.ID)
	assert.ErrorIs(t, err, ErrUserFollowSelf)
	assert.Equal(t, int64(0), e.db.user(u.ID).FollowingCount)
}

func TestFollowUnknownUser(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("alice", model.RoleUser)

	_, err := e.follows.Toggle(context.Background(), u.ID, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToggleFollowUpdatesBothCountersAndNotifies(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)

	following, err := e.follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, int64(1), e.db.user(bob.ID).FollowersCount)
	assert.Equal(t, int64(1), e.db.user(alice.ID).FollowingCount)

	notes := e.notes.forRecipient(bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyTypeFollow, notes[0].Type)
	assert.Equal(t, alice.ID, notes[0].ActorID)
	assert.Equal(t, int64(1), e.publisher.counts[bob.ID])

	following, err = e.follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, int64(0), e.db.user(bob.ID).FollowersCount)
	assert.Equal(t, int64(0), e.db.user(alice.ID).FollowingCount)
	// 取消关注不产生通知
	assert.Len(t, e.notes.forRecipient(bob.ID), 1)
}

func TestFollowAndUnfollowAreIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)

	changed, err := e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(1), e.db.user(bob.ID).FollowersCount)

	changed, err = e.follows.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = e.follows.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(0), e.db.user(bob.ID).FollowersCount)
}

func TestConcurrentFollowTogglesStayConsistent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.follows.Toggle(ctx, alice.ID, bob.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	isFollowing, err := e.follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)
	assert.Equal(t, e.db.truthOf(model.UserFollowers, bob.ID), e.db.user(bob.ID).FollowersCount)
	assert.Equal(t, e.db.truthOf(model.UserFollowing, alice.ID), e.db.user(alice.ID).FollowingCount)
}

func TestFollowingIDsUsesCacheAndIsInvalidated(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)
	carol := e.db.addUser("carol", model.RoleUser)

	_, err := e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	ids, err := e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob.ID}, ids)

	ids, err = e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob.ID}, ids)
	assert.Equal(t, 1, e.cache.hits)

	_, err = e.follows.Follow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	ids, err = e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{carol.ID, bob.ID}, ids)
}

func TestFollowDuringCacheFillIsNotHiddenFromFeed(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)
	carol := e.db.addUser("carol", model.RoleChef)
	e.db.addRecipe(bob.ID, "Bagel")
	risotto := e.db.addRecipe(carol.ID, "Risotto")

	_, err := e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 读到只含 bob 的快照之后、写缓存之前，alice 关注了 carol
	e.db.afterFollowingLoad = func() {
		created, err := e.follows.Follow(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
		assert.True(t, created)
	}
	ids, err := e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob.ID}, ids)
	assert.Equal(t, 1, e.cache.skipped)

	isFollowing, err := e.follows.IsFollowing(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.True(t, isFollowing)

	feed, err := e.feed.GetFeed(ctx, alice.ID, 0, 20)
	require.NoError(t, err)
	found := false
	for _, entry := range feed {
		if entry.ID == risotto.ID {
			found = true
		}
	}
	assert.True(t, found)

	ids, err = e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{bob.ID, carol.ID}, ids)
}

func TestEmptyCachedFollowingIsTreatedAsMiss(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)

	_, err := e.follows.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	e.cache.mu.Lock()
	e.cache.data[followingKey(alice.ID)] = []uint64{}
	e.cache.mu.Unlock()

	ids, err := e.follows.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob.ID}, ids)
	assert.Zero(t, e.cache.hits)
}

func TestFollowersAndFollowingPages(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	star := e.db.addUser("star", model.RoleChef)
	fans := []*model.User{e.db.addUser("f1", model.RoleUser), e.db.addUser("f2", model.RoleUser), e.db.addUser("f3", model.RoleUser)}
	for _, f := range fans {
		_, err := e.follows.Follow(ctx, f.ID, star.ID)
		require.NoError(t, err)
	}

	followers, err := e.follows.GetFollowers(ctx, star.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, fans[2].ID, followers[0].ID)

	following, err := e.follows.GetFollowing(ctx, fans[0].ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "star", following[0].Username)
}

func TestFollowLimit(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	target := e.db.addUser("target", model.RoleUser)

	e.db.mu.Lock()
	for i := uint64(0); i < MaxFollowingCount; i++ {
		e.db.follows[pair{alice.ID, 10_000 + i}] = e.db.tick()
	}
	e.db.mu.Unlock()

	_, err := e.follows.Follow(ctx, alice.ID, target.ID)
	assert.ErrorIs(t, err, ErrUserFollowLimit)
}
