package app

import (
	"github.com/gorilla/mux"

	"github.com/kudoshq/kudos/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authentication
	r.HandleFunc("/api/auth/login", deps.IdentityAuth.Login).Methods("GET")
	r.HandleFunc("/api/auth/callback", deps.IdentityAuth.Callback).Methods("GET")
	r.HandleFunc("/api/auth/refresh", deps.IdentityAuth.Refresh).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.IdentityAuth.Logout).Methods("DELETE")

	// Users
	r.HandleFunc("/api/users", deps.UserHandler.GetAllUsers).Methods("GET")
	r.HandleFunc("/api/users/profile", deps.UserHandler.CurrentProfile).Methods("GET")
	r.HandleFunc("/api/users/points", deps.UserHandler.GetPoints).Methods("GET")
	r.HandleFunc("/api/users/preferences", deps.UserHandler.UpdatePreferences).Methods("PUT")
	r.HandleFunc("/api/users/image", deps.UserHandler.UploadPhoto).Methods("PUT")
	r.HandleFunc("/api/users/{uid}/image", deps.UserHandler.GetPhoto).Methods("GET")
	r.HandleFunc("/api/users/{uid}", deps.UserHandler.GetUser).Methods("GET")

	// Recognition feed
	r.HandleFunc("/api/recognition", deps.RecognitionHandler.GetFeed).Methods("GET")
	r.HandleFunc("/api/recognition", deps.RecognitionHandler.Send).Methods("POST")
	r.HandleFunc("/api/recognition/user-data", deps.RecognitionHandler.GetUserData).Methods("GET")
	r.HandleFunc("/api/recognition/{recognitionId}/kudos", deps.RecognitionHandler.ToggleKudos).Methods("POST")

	// Rewards
	r.HandleFunc("/api/rewards/global", deps.RewardHandler.GetGlobal).Methods("GET")
	r.HandleFunc("/api/rewards/organization", deps.RewardHandler.GetOrganization).Methods("GET")
	r.HandleFunc("/api/rewards/organization", deps.RewardHandler.CreateForOrganization).Methods("POST")
	r.HandleFunc("/api/rewards/organization/add/{rewardId}", deps.RewardHandler.AddToOrganization).Methods("POST")
	r.HandleFunc("/api/rewards/redeem/{rewardId}", deps.RewardHandler.Redeem).Methods("POST")
	r.HandleFunc("/api/rewards/redemptions", deps.RewardHandler.GetRedemptionHistory).Methods("GET")

	// Reward suggestions
	r.HandleFunc("/api/reward-suggestions/organization/suggestions", deps.SuggestionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/reward-suggestions/organization/suggestions", deps.SuggestionHandler.Create).Methods("POST")
	r.HandleFunc("/api/reward-suggestions/organization/suggestions/{suggestionId}/vote", deps.SuggestionHandler.ToggleVote).Methods("POST")

	// Notifications
	r.HandleFunc("/api/notifications", deps.NotificationHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/notifications", deps.NotificationHandler.Clear).Methods("DELETE")
	r.HandleFunc("/api/notifications/{notificationId}/read", deps.NotificationHandler.MarkRead).Methods("PATCH")

	// Analytics
	r.HandleFunc("/api/analytics/organizations/performance", deps.AnalyticsHandler.GetPerformance).Methods("GET")

	// Administration
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(requireAdmin)
	admin.HandleFunc("/yearly-budget", deps.BudgetHandler.GetYearlyBudget).Methods("GET")
	admin.HandleFunc("/yearly-budget", deps.BudgetHandler.SetYearlyBudget).Methods("PUT")
	admin.HandleFunc("/points-distribution", deps.BudgetHandler.GetDistributionTable).Methods("GET")
	admin.HandleFunc("/monthly-allocation/{employeeType}", deps.BudgetHandler.GetAllocation).Methods("GET")
	admin.HandleFunc("/monthly-allocation", deps.BudgetHandler.SetAllocation).Methods("PUT")
	admin.HandleFunc("/budget-calculation", deps.BudgetHandler.GetCalculation).Methods("GET")
	admin.HandleFunc("/points/distribute", deps.DistributionHandler.Distribute).Methods("POST")
	admin.HandleFunc("/points/distributions", deps.DistributionHandler.GetHistory).Methods("GET")
	admin.HandleFunc("/users", deps.UserHandler.GetAllUsers).Methods("GET")
	admin.HandleFunc("/recognition-types", deps.RecognitionTypeHandler.GetAll).Methods("GET")
	admin.HandleFunc("/recognition-types", deps.RecognitionTypeHandler.Create).Methods("POST")
	admin.HandleFunc("/recognition-types/{typeId}", deps.RecognitionTypeHandler.Update).Methods("PATCH")
	admin.HandleFunc("/recognition/{recognitionId}/pin", deps.RecognitionHandler.Pin).Methods("PATCH")
	admin.HandleFunc("/rewards", deps.RewardHandler.GetAllForAdmin).Methods("GET")
	admin.HandleFunc("/rewards", deps.RewardHandler.Create).Methods("POST")
	admin.HandleFunc("/rewards/{rewardId}", deps.RewardHandler.Update).Methods("PATCH")
	admin.HandleFunc("/reward-suggestions/{suggestionId}/review", deps.SuggestionHandler.Review).Methods("PATCH")
}
