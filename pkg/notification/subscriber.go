package notification

import (
	"context"
	"fmt"

	"github.com/kudoshq/kudos/internal/event_bus"
)

// Subscribe wires notification creation to the domain events published by
// the rest of the application. Handlers run synchronously on publish.
func Subscribe(bus *event_bus.EventBus, service Service) {
	event_bus.SubscribeTyped[event_bus.RecognitionCreated](bus, event_bus.RecognitionCreatedEvent,
		func(e event_bus.EventT[event_bus.RecognitionCreated]) error {
			points := e.Data.Points
			sourceUid := e.Data.Uid
			_, err := service.Notify(context.Background(), Notification{
				UserId:    e.Data.RecipientId,
				Type:      TypeRecognitionReceived,
				Title:     "You received a recognition",
				Message:   fmt.Sprintf("%s recognized you for %s", e.Data.SenderName, e.Data.Category),
				Points:    &points,
				SourceUid: &sourceUid,
			})
			return err
		})

	event_bus.SubscribeTyped[event_bus.PointsDistributed](bus, event_bus.PointsDistributedEvent,
		func(e event_bus.EventT[event_bus.PointsDistributed]) error {
			points := e.Data.Points
			sourceUid := e.Data.Uid
			_, err := service.Notify(context.Background(), Notification{
				UserId:    e.Data.UserId,
				Type:      TypePointsReceived,
				Title:     "Points added to your balance",
				Message:   fmt.Sprintf("You received %d points: %s", e.Data.Points, e.Data.Reason),
				Points:    &points,
				SourceUid: &sourceUid,
			})
			return err
		})

	event_bus.SubscribeTyped[event_bus.RewardRedeemed](bus, event_bus.RewardRedeemedEvent,
		func(e event_bus.EventT[event_bus.RewardRedeemed]) error {
			points := e.Data.PointsSpent
			sourceUid := e.Data.Uid
			_, err := service.Notify(context.Background(), Notification{
				UserId:    e.Data.UserId,
				Type:      TypeRewardRedeemed,
				Title:     "Reward redeemed",
				Message:   fmt.Sprintf("You redeemed %s for %d points", e.Data.RewardName, e.Data.PointsSpent),
				Points:    &points,
				SourceUid: &sourceUid,
			})
			return err
		})

	event_bus.SubscribeTyped[event_bus.SuggestionReviewed](bus, event_bus.SuggestionReviewedEvent,
		func(e event_bus.EventT[event_bus.SuggestionReviewed]) error {
			sourceUid := e.Data.Uid
			_, err := service.Notify(context.Background(), Notification{
				UserId:    e.Data.SuggestedById,
				Type:      TypeSuggestionReviewed,
				Title:     "Your reward suggestion was reviewed",
				Message:   fmt.Sprintf("Your suggestion %q was %s", e.Data.Name, e.Data.Status),
				SourceUid: &sourceUid,
			})
			return err
		})
}
