package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/user"
)

func setupNotificationService() (*ServiceImpl, *StubNotificationRepo, context.Context) {
	repo := NewStubNotificationRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, clock)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "u1"})
	return service, repo, ctx
}

func TestNotify_AndReadLifecycle(t *testing.T) {
	service, _, ctx := setupNotificationService()

	created, err := service.Notify(ctx, Notification{
		UserId:  1,
		Type:    TypePointsReceived,
		Title:   "Points added to your balance",
		Message: "You received 100 points: Q1 award",
	})
	require.NoError(t, err)
	assert.False(t, created.Read)
	assert.NotEmpty(t, created.Uid)

	notifications, err := service.GetForCurrentUser(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, service.MarkRead(ctx, created.Uid))
	notifications, err = service.GetForCurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, notifications[0].Read)

	require.NoError(t, service.ClearForCurrentUser(ctx))
	notifications, err = service.GetForCurrentUser(ctx)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestMarkRead_OtherUsersNotification(t *testing.T) {
	service, _, ctx := setupNotificationService()

	created, err := service.Notify(ctx, Notification{UserId: 2, Type: TypePointsReceived, Title: "t", Message: "m"})
	require.NoError(t, err)

	err = service.MarkRead(ctx, created.Uid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribe_CreatesNotificationsFromEvents(t *testing.T) {
	service, repo, ctx := setupNotificationService()
	bus := event_bus.NewEventBus()
	Subscribe(bus, service)

	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.RecognitionCreatedEvent, event_bus.RecognitionCreated{
		Uid: "rec-1", SenderId: 2, RecipientId: 1, SenderName: "Grace Hopper", Category: "TEAMWORK", Points: 50,
	})))
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.PointsDistributedEvent, event_bus.PointsDistributed{
		Uid: "dist-1", UserId: 1, Points: 100, Reason: "Q1 award",
	})))
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.SuggestionReviewedEvent, event_bus.SuggestionReviewed{
		Uid: "sug-1", SuggestedById: 1, Name: "Team Lunch", Status: "APPROVED",
	})))

	notifications, err := repo.GetForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	types := make([]Type, 0, len(notifications))
	for _, notification := range notifications {
		types = append(types, notification.Type)
	}
	assert.Contains(t, types, TypeRecognitionReceived)
	assert.Contains(t, types, TypePointsReceived)
	assert.Contains(t, types, TypeSuggestionReviewed)
}
