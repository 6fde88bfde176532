package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/kudoshq/kudos/internal/auth"
	"github.com/kudoshq/kudos/internal/config"
	"github.com/kudoshq/kudos/internal/event_bus"
	"github.com/kudoshq/kudos/internal/scheduler"
	"github.com/kudoshq/kudos/internal/utils"
	"github.com/kudoshq/kudos/pkg/analytics"
	"github.com/kudoshq/kudos/pkg/budget"
	"github.com/kudoshq/kudos/pkg/distribution"
	"github.com/kudoshq/kudos/pkg/identity"
	"github.com/kudoshq/kudos/pkg/notification"
	"github.com/kudoshq/kudos/pkg/recognition"
	"github.com/kudoshq/kudos/pkg/recognition_type"
	"github.com/kudoshq/kudos/pkg/reward"
	"github.com/kudoshq/kudos/pkg/suggestion"
	"github.com/kudoshq/kudos/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	TokenValidator *auth.TokenValidator
	IdentityAuth   *identity.Auth

	UserService user.Service
	UserHandler *user.Handler

	BudgetRepo    budget.BudgetRepo
	BudgetService budget.BudgetService
	BudgetHandler *budget.BudgetHandler

	DistributionRepo    distribution.DistributionRepo
	DistributionService distribution.DistributionService
	DistributionHandler *distribution.DistributionHandler

	RecognitionTypeRepo    recognition_type.Repository
	RecognitionTypeService recognition_type.Service
	RecognitionTypeHandler *recognition_type.Handler

	RecognitionRepo    recognition.Repository
	RecognitionService recognition.Service
	RecognitionHandler *recognition.Handler

	RewardRepo    reward.Repo
	RewardService reward.Service
	RewardHandler *reward.Handler

	SuggestionRepo    suggestion.Repo
	SuggestionService suggestion.Service
	SuggestionHandler *suggestion.Handler

	NotificationRepo    notification.Repo
	NotificationService notification.Service
	NotificationHandler *notification.Handler

	AnalyticsRepo    analytics.Repo
	AnalyticsService analytics.Service
	AnalyticsHandler *analytics.Handler

	EventBus  *event_bus.EventBus
	Scheduler *scheduler.Scheduler
	Clock     utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	tokenValidator, err := auth.NewTokenValidator(cfg.Auth)
	if err != nil {
		return nil, err
	}
	deps.TokenValidator = tokenValidator

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	// The user profile needs budget and recognition data, which in turn
	// need the user service. The closures break the construction cycle by
	// resolving through deps at call time.
	allocationFor := func(ctx context.Context, employeeType string) (int, bool, error) {
		allocation, found, err := deps.BudgetService.Allocation(ctx, employeeType)
		return allocation.Amount, found, err
	}
	givenPointsFor := func(ctx context.Context, userId int, since time.Time) (int, error) {
		return deps.RecognitionService.PointsGivenSince(ctx, userId, since)
	}
	deps.UserService = user.NewUserService(user.NewUserRepo(db), cfg.Storage.PhotoDir, allocationFor, givenPointsFor, deps.Clock)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.IdentityAuth = identity.NewAuth(db, deps.UserService, cfg)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.DistributionRepo = distribution.NewDistributionRepo(db)
	deps.DistributionService = distribution.NewDistributionService(
		deps.DistributionRepo, deps.UserService, deps.BudgetService, deps.EventBus, deps.Clock)
	deps.DistributionHandler = distribution.NewDistributionHandler(deps.DistributionService)

	deps.RecognitionTypeRepo = recognition_type.NewRepository(db)
	deps.RecognitionTypeService = recognition_type.NewService(deps.RecognitionTypeRepo, deps.Clock)
	deps.RecognitionTypeHandler = recognition_type.NewHandler(deps.RecognitionTypeService)

	deps.RecognitionRepo = recognition.NewRepository(db)
	deps.RecognitionService = recognition.NewService(
		deps.RecognitionRepo, deps.UserService, deps.RecognitionTypeService, deps.BudgetService, deps.EventBus, deps.Clock)
	deps.RecognitionHandler = recognition.NewHandler(deps.RecognitionService)

	deps.RewardRepo = reward.NewRepo(db)
	deps.RewardService = reward.NewService(deps.RewardRepo, deps.EventBus, deps.Clock)
	deps.RewardHandler = reward.NewHandler(deps.RewardService)

	deps.SuggestionRepo = suggestion.NewRepo(db)
	deps.SuggestionService = suggestion.NewService(deps.SuggestionRepo, deps.RewardService, deps.EventBus, deps.Clock)
	deps.SuggestionHandler = suggestion.NewHandler(deps.SuggestionService)

	deps.NotificationRepo = notification.NewRepo(db)
	deps.NotificationService = notification.NewService(deps.NotificationRepo, deps.Clock)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)
	notification.Subscribe(deps.EventBus, deps.NotificationService)

	deps.AnalyticsRepo = analytics.NewRepo(db)
	deps.AnalyticsService = analytics.NewService(deps.AnalyticsRepo, deps.Clock)
	deps.AnalyticsHandler = analytics.NewHandler(deps.AnalyticsService)

	digest := notification.NewDigest(deps.NotificationService, deps.UserService, deps.RecognitionService, deps.Clock)
	deps.Scheduler = scheduler.New(deps.RecognitionService, digest)

	return deps, nil
}
