package recognition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/budget"
	"github.com/kudoshq/kudos/pkg/recognition_type"
	"github.com/kudoshq/kudos/pkg/user"
)

type stubRecipients struct {
	users map[string]user.User
}

func (s *stubRecipients) GetUserByUid(_ context.Context, uid string) (user.User, error) {
	u, ok := s.users[uid]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type stubTypes struct {
	types map[string]recognition_type.RecognitionType
}

func (s *stubTypes) GetByUid(_ context.Context, uid string) (recognition_type.RecognitionType, error) {
	t, ok := s.types[uid]
	if !ok {
		return recognition_type.RecognitionType{}, recognition_type.ErrNotFound
	}
	return t, nil
}

type stubAllocationLookup struct {
	allocations map[string]budget.MonthlyAllocation
}

func (s *stubAllocationLookup) Allocation(_ context.Context, employeeType string) (budget.MonthlyAllocation, bool, error) {
	allocation, ok := s.allocations[employeeType]
	return allocation, ok, nil
}

func setupRecognitionService() (*ServiceImpl, *StubRecognitionRepository, *event_bus.EventBus, *utils.MockClock, context.Context) {
	repo := NewStubRecognitionRepository()
	recipients := &stubRecipients{users: map[string]user.User{
		"u2": {Id: 2, Uid: "u2", FirstName: "Grace", LastName: "Hopper", EmployeeType: "FULL_TIME"},
	}}
	types := &stubTypes{types: map[string]recognition_type.RecognitionType{
		"teamwork": {Id: 1, Uid: "teamwork", Name: "Team Player", Category: "TEAMWORK", PointValue: 50, Active: true},
		"thanks":   {Id: 2, Uid: "thanks", Name: "Thank You", Category: "GRATITUDE", PointValue: 0, Active: true},
	}}
	allocations := &stubAllocationLookup{allocations: map[string]budget.MonthlyAllocation{
		"FULL_TIME": {EmployeeType: "FULL_TIME", Amount: 120, MaxPointsPerRecognition: 60},
	}}
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, recipients, types, allocations, bus, clock)
	ctx := user.WithUser(context.Background(), user.User{
		Id: 1, Uid: "u1", FirstName: "Ada", LastName: "Lovelace", EmployeeType: "FULL_TIME",
	})
	return service, repo, bus, clock, ctx
}

func TestSend_CreditsRecipientAndPublishesEvent(t *testing.T) {
	service, repo, bus, _, ctx := setupRecognitionService()

	var published []event_bus.RecognitionCreated
	event_bus.SubscribeTyped[event_bus.RecognitionCreated](bus, event_bus.RecognitionCreatedEvent,
		func(e event_bus.EventT[event_bus.RecognitionCreated]) error {
			published = append(published, e.Data)
			return nil
		})

	recognition, err := service.Send(ctx, "u2", "teamwork", "Great sprint support!")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", recognition.SenderName)
	assert.Equal(t, "Grace Hopper", recognition.RecipientName)
	assert.Equal(t, "TEAMWORK", recognition.Category)
	assert.Equal(t, 50, recognition.Points)
	assert.Equal(t, 50, repo.Credits[2])
	require.Len(t, published, 1)
	assert.Equal(t, recognition.Uid, published[0].Uid)
	assert.Equal(t, 2, published[0].RecipientId)
}

func TestSend_ZeroPointTypeSkipsAllocationCheck(t *testing.T) {
	service, repo, _, _, ctx := setupRecognitionService()

	// Exhaust the monthly allocation first.
	_, err := service.Send(ctx, "u2", "teamwork", "one")
	require.NoError(t, err)
	_, err = service.Send(ctx, "u2", "teamwork", "two")
	require.NoError(t, err)

	_, err = service.Send(ctx, "u2", "thanks", "still possible")
	require.NoError(t, err)
	assert.Equal(t, 100, repo.Credits[2])
}

func TestSend_RejectsWhenAllocationExhausted(t *testing.T) {
	service, _, _, _, ctx := setupRecognitionService()

	_, err := service.Send(ctx, "u2", "teamwork", "one")
	require.NoError(t, err)
	_, err = service.Send(ctx, "u2", "teamwork", "two")
	require.NoError(t, err)

	_, err = service.Send(ctx, "u2", "teamwork", "three")
	assert.ErrorIs(t, err, ErrInsufficientAllocation)
}

func TestSend_AllowedAgainNextMonth(t *testing.T) {
	service, _, _, clock, ctx := setupRecognitionService()

	_, err := service.Send(ctx, "u2", "teamwork", "one")
	require.NoError(t, err)
	_, err = service.Send(ctx, "u2", "teamwork", "two")
	require.NoError(t, err)
	_, err = service.Send(ctx, "u2", "teamwork", "three")
	require.ErrorIs(t, err, ErrInsufficientAllocation)

	clock.SetNow(time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	_, err = service.Send(ctx, "u2", "teamwork", "fresh month")
	assert.NoError(t, err)
}

func TestSend_RejectsAbovePerRecognitionCap(t *testing.T) {
	service, _, _, _, ctx := setupRecognitionService()
	service.types.(*stubTypes).types["jackpot"] = recognition_type.RecognitionType{
		Id: 3, Uid: "jackpot", Name: "Jackpot", Category: "IMPACT", PointValue: 75, Active: true,
	}

	_, err := service.Send(ctx, "u2", "jackpot", "too generous")
	assert.ErrorIs(t, err, ErrExceedsRecognitionCap)
}

func TestSend_UnknownRecipient(t *testing.T) {
	service, _, _, _, ctx := setupRecognitionService()

	_, err := service.Send(ctx, "missing", "teamwork", "hello")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestToggleKudos_AddsAndRemoves(t *testing.T) {
	service, _, _, _, ctx := setupRecognitionService()

	recognition, err := service.Send(ctx, "u2", "thanks", "nice work")
	require.NoError(t, err)

	toggled, err := service.ToggleKudos(ctx, recognition.Uid)
	require.NoError(t, err)
	assert.Len(t, toggled.Kudos, 1)

	toggled, err = service.ToggleKudos(ctx, recognition.Uid)
	require.NoError(t, err)
	assert.Empty(t, toggled.Kudos)
}

func TestClearExpiredPins(t *testing.T) {
	service, repo, _, clock, ctx := setupRecognitionService()

	recognition, err := service.Send(ctx, "u2", "thanks", "pinned one")
	require.NoError(t, err)
	pinnedUntil := clock.Now().Add(24 * time.Hour)
	_, err = service.Pin(ctx, recognition.Uid, &pinnedUntil)
	require.NoError(t, err)

	cleared, err := service.ClearExpiredPins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cleared)

	clock.SetNow(clock.Now().Add(48 * time.Hour))
	cleared, err = service.ClearExpiredPins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	unpinned, err := repo.GetByUid(ctx, recognition.Uid)
	require.NoError(t, err)
	assert.Nil(t, unpinned.PinnedUntil)
}
