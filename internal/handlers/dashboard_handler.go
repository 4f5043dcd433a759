package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/grvbrk/smart-bookmarks/internal/middlewares"
	"github.com/grvbrk/smart-bookmarks/internal/store"
	"github.com/grvbrk/smart-bookmarks/internal/store/analytics"
	"github.com/grvbrk/smart-bookmarks/internal/utils"
)

type DashboardHandler struct {
	DashboardStore store.DashboardStore
	EventStore     analytics.EventStore
	Logger         *log.Logger
}

func NewDashboardHandler(dashboardStore store.DashboardStore, eventStore analytics.EventStore, logger *log.Logger) *DashboardHandler {
	return &DashboardHandler{
		DashboardStore: dashboardStore,
		EventStore:     eventStore,
		Logger:         logger,
	}
}

func (dh *DashboardHandler) HandlerGetDashboardMetrics(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		dh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authorized"})
		return
	}

	dashboard, err := dh.DashboardStore.GetDashboardMetricsByUserID(user.ID)
	if err != nil {
		dh.Logger.Println("Error getting dashboard metrics", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	// Activity comes from the analytics sink and is best-effort; metrics
	// still render without it.
	var activity []analytics.DailyActivity
	if dh.EventStore != nil {
		since := time.Now().AddDate(0, 0, -30)
		activity, err = dh.EventStore.GetActivityByUserID(r.Context(), user.ID, since)
		if err != nil {
			dh.Logger.Println("Error getting bookmark activity", err)
			activity = nil
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": utils.Envelope{
		"total_bookmarks": dashboard.TotalBookmarks,
		"added_this_week": dashboard.AddedThisWeek,
		"activity":        activity,
	}})
}
