package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSelfActionsProduceNoNotification(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	recipe := e.db.addRecipe(chef.ID, "Own dish")

	_, err := e.actions.ToggleLike(ctx, chef.ID, recipe.ID)
	require.NoError(t, err)
	_, err = e.actions.AddComment(ctx, chef.ID, recipe.ID, "tasty")
	require.NoError(t, err)

	assert.Empty(t, e.notes.forRecipient(chef.ID))
}

func TestLikeNotifiesOnlyOnTransitionToLiked(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	fan := e.db.addUser("fan", model.RoleUser)
	recipe := e.db.addRecipe(chef.ID, "Ramen")

	for range 3 {
		_, err := e.actions.ToggleLike(ctx, fan.ID, recipe.ID)
		require.NoError(t, err)
	}

	notes := e.notes.forRecipient(chef.ID)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, model.NotifyTypeLike, n.Type)
		assert.Equal(t, recipe.ID, n.TargetID)
	}
}

func TestListNotificationsHydratesActor(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	fan := e.db.addUser("fan", model.RoleUser)
	_, err := e.follows.Follow(ctx, fan.ID, chef.ID)
	require.NoError(t, err)

	list, err := e.notifications.List(ctx, chef.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fan", list[0].ActorName)
	assert.False(t, list[0].IsRead)

	count, err := e.notifications.UnreadCount(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkReadRejectsForeignNotificationsWithoutMutation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.db.addUser("alice", model.RoleUser)
	bob := e.db.addUser("bob", model.RoleUser)
	carol := e.db.addUser("carol", model.RoleUser)

	_, err := e.follows.Follow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = e.follows.Follow(ctx, carol.ID, bob.ID)
	require.NoError(t, err)
	aliceNote := e.notes.forRecipient(alice.ID)[0]
	bobNote := e.notes.forRecipient(bob.ID)[0]

	_, err = e.notifications.MarkRead(ctx, alice.ID, []string{aliceNote.ID.Hex(), bobNote.ID.Hex()})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, e.notes.forRecipient(alice.ID)[0].IsRead)
	assert.False(t, e.notes.forRecipient(bob.ID)[0].IsRead)

	n, err := e.notifications.MarkRead(ctx, alice.ID, []string{aliceNote.ID.Hex(), primitive.NewObjectID().Hex()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, e.notes.forRecipient(alice.ID)[0].IsRead)
	assert.Equal(t, int64(0), e.publisher.counts[alice.ID])
}

func TestMarkReadValidatesIDs(t *testing.T) {
	e := newEnv()
	_, err := e.notifications.MarkRead(context.Background(), 1, []string{"not-an-id"})
	assert.ErrorIs(t, err, ErrParamInvalid)
	_, err = e.notifications.MarkRead(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestMarkAllRead(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	chef := e.db.addUser("chef", model.RoleChef)
	for _, name := range []string{"a", "b", "c"} {
		fan := e.db.addUser(name, model.RoleUser)
		_, err := e.follows.Follow(ctx, fan.ID, chef.ID)
		require.NoError(t, err)
	}

	n, err := e.notifications.MarkAllRead(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	count, err := e.notifications.UnreadCount(ctx, chef.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFailedDispatchGoesToOutboxAndIsRelayed(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	dispatcher := &failingDispatcher{err: errFake}
	svc := NewNotificationService(e.notes, e.db, e.db, dispatcher, e.publisher, NewAccessPolicy(), e.images, 10, 2)

	svc.Notify(ctx, model.NotifyCommand{ActorID: 1, RecipientID: 2, Type: model.NotifyTypeFollow})
	require.Len(t, e.db.outbox, 1)
	assert.Equal(t, errFake.Error(), e.db.outbox[0].LastError)

	total, ok, err := svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Zero(t, ok)
	assert.Equal(t, 1, e.db.outbox[0].Retry)
	assert.Equal(t, model.OutboxStatusPending, e.db.outbox[0].Status)

	dispatcher.err = nil
	total, ok, err = svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, ok)
	assert.Equal(t, model.OutboxStatusSent, e.db.outbox[0].Status)
	require.Len(t, dispatcher.cmds, 1)
	assert.Equal(t, uint64(2), dispatcher.cmds[0].RecipientID)
}

func TestReplayedEventCreatesOneNotification(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	cmd := model.NotifyCommand{EventID: "evt-1", ActorID: 1, RecipientID: 2, Type: model.NotifyTypeLike}

	// 消费者在提交位点前重启，同一条消息被再次消费
	require.NoError(t, e.notifications.Create(ctx, cmd))
	require.NoError(t, e.notifications.Create(ctx, cmd))

	count, err := e.notifications.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, e.notes.forRecipient(2), 1)
}

func TestNotifyAssignsEventID(t *testing.T) {
	e := newEnv()
	dispatcher := &failingDispatcher{}
	svc := NewNotificationService(e.notes, e.db, e.db, dispatcher, nil, NewAccessPolicy(), nil, 10, 2)

	svc.Notify(context.Background(), model.NotifyCommand{ActorID: 1, RecipientID: 2, Type: model.NotifyTypeFollow})
	svc.Notify(context.Background(), model.NotifyCommand{ActorID: 1, RecipientID: 2, Type: model.NotifyTypeFollow})
	require.Len(t, dispatcher.cmds, 2)
	assert.NotEmpty(t, dispatcher.cmds[0].EventID)
	assert.NotEqual(t, dispatcher.cmds[0].EventID, dispatcher.cmds[1].EventID)
}

func TestRelayAfterLostSentMarkDoesNotDuplicate(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	dispatcher := &failingDispatcher{err: errFake}
	svc := NewNotificationService(e.notes, e.db, e.db, dispatcher, e.publisher, NewAccessPolicy(), e.images, 10, 5)
	dispatcher.deliver = svc.Create

	svc.Notify(ctx, model.NotifyCommand{ActorID: 1, RecipientID: 2, Type: model.NotifyTypeComment, Message: "hi"})
	require.Len(t, e.db.outbox, 1)

	dispatcher.err = nil
	e.db.failMarkSent = true
	_, ok, err := svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ok)
	assert.Equal(t, model.OutboxStatusPending, e.db.outbox[0].Status)

	e.db.failMarkSent = false
	_, ok, err = svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ok)
	assert.Equal(t, model.OutboxStatusSent, e.db.outbox[0].Status)

	require.Len(t, dispatcher.cmds, 2)
	assert.Len(t, e.notes.forRecipient(2), 1)
}

func TestOutboxGivesUpAfterMaxTries(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	svc := NewNotificationService(e.notes, e.db, e.db, &failingDispatcher{err: errFake}, nil, NewAccessPolicy(), nil, 10, 2)

	svc.Notify(ctx, model.NotifyCommand{ActorID: 1, RecipientID: 2, Type: model.NotifyTypeLike})
	for range 2 {
		_, _, err := svc.RelayOutbox(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, model.OutboxStatusFailed, e.db.outbox[0].Status)

	total, _, err := svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSendSystemRequiresStaff(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	mod := e.db.addUser("mod", model.RoleModerator)
	user := e.db.addUser("user", model.RoleUser)
	other := e.db.addUser("other", model.RoleUser)
	req := &dto.SystemNotificationDTO{RecipientIDs: []uint64{user.ID, other.ID, user.ID, 999}, Message: "maintenance tonight"}

	_, err := e.notifications.SendSystem(ctx, actorOf(user), req)
	assert.ErrorIs(t, err, ErrForbidden)

	sent, err := e.notifications.SendSystem(ctx, actorOf(mod), req)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	notes := e.notes.forRecipient(user.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyTypeSystem, notes[0].Type)
	assert.Equal(t, "maintenance tonight", notes[0].Message)
}
