package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grvbrk/smart-bookmarks/internal/middlewares"
	"github.com/grvbrk/smart-bookmarks/internal/realtime"
	"github.com/grvbrk/smart-bookmarks/internal/store"
	"github.com/grvbrk/smart-bookmarks/internal/store/analytics"
	"github.com/grvbrk/smart-bookmarks/internal/utils"
)

const heartbeatInterval = 25 * time.Second

type BookmarkHandler struct {
	BookmarkStore store.BookmarkStore
	EventStore    analytics.EventStore
	Broker        realtime.Broker
	Logger        *log.Logger
}

func NewBookmarkHandler(bookmarkStore store.BookmarkStore, eventStore analytics.EventStore, broker realtime.Broker, logger *log.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		BookmarkStore: bookmarkStore,
		EventStore:    eventStore,
		Broker:        broker,
		Logger:        logger,
	}
}

func (bh *BookmarkHandler) HandlerGetBookmarks(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		bh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authorized"})
		return
	}

	bookmarks, err := bh.BookmarkStore.GetBookmarksByUserID(user.ID)
	if err != nil {
		bh.Logger.Println("Error getting bookmarks", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": bookmarks})
}

func (bh *BookmarkHandler) HandlerCreateBookmark(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		bh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authorized"})
		return
	}

	var req struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		bh.Logger.Println("Error decoding request body in handler", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	title := strings.TrimSpace(req.Title)
	url := strings.TrimSpace(req.URL)
	if title == "" || url == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Title and URL are required"})
		return
	}

	// Owner always comes from the session, never from the request body.
	bookmark, err := bh.BookmarkStore.CreateBookmark(title, url, user.ID)
	if err != nil {
		bh.Logger.Println("Error creating bookmark", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	if err := bh.Broker.Publish(r.Context(), user.ID); err != nil {
		bh.Logger.Println("Error publishing change signal", err)
	}

	bh.recordEvent(analytics.EventBookmarkCreated, user.ID, bookmark.Id, utils.GetDomain(bookmark.URL))

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"data": bookmark})
}

func (bh *BookmarkHandler) HandlerDeleteBookmark(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		bh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authorized"})
		return
	}

	bookmarkID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		bh.Logger.Println("Error parsing bookmark id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	err = bh.BookmarkStore.DeleteBookmark(bookmarkID, user.ID)
	if errors.Is(err, store.ErrBookmarkNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"message": "Not Found"})
		return
	}
	if err != nil {
		bh.Logger.Println("Error deleting bookmark", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	if err := bh.Broker.Publish(r.Context(), user.ID); err != nil {
		bh.Logger.Println("Error publishing change signal", err)
	}

	bh.recordEvent(analytics.EventBookmarkDeleted, user.ID, bookmarkID, "")

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Success"})
}

// HandlerStreamBookmarkChanges streams change signals for the session user as
// Server-Sent Events. Each "change" event means the list changed in some way;
// the client refetches the full list rather than patching local state.
func (bh *BookmarkHandler) HandlerStreamBookmarkChanges(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		bh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"message": "Not Authorized"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		bh.Logger.Println("Streaming unsupported by response writer")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	sub, err := bh.Broker.Subscribe(r.Context(), user.ID)
	if err != nil {
		bh.Logger.Println("Error subscribing to change signals", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Changes():
			fmt.Fprint(w, "event: change\ndata: {}\n\n")
			flusher.Flush()
		case <-heartbeat.C:
			// Keeps proxies from closing an idle stream.
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

// recordEvent ships a bookmark lifecycle event to the analytics sink. Runs
// off the request path; failures are logged and never reach the user.
func (bh *BookmarkHandler) recordEvent(eventType string, userID uuid.UUID, bookmarkID uuid.UUID, domain string) {
	if bh.EventStore == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := bh.EventStore.RecordBookmarkEvent(ctx, eventType, userID, bookmarkID, domain); err != nil {
			bh.Logger.Println("Error recording bookmark event", err)
		}
	}()
}
