package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grvbrk/smart-bookmarks/internal/middlewares"
	"github.com/grvbrk/smart-bookmarks/internal/models"
	"github.com/grvbrk/smart-bookmarks/internal/realtime"
	"github.com/grvbrk/smart-bookmarks/internal/store"
	"github.com/grvbrk/smart-bookmarks/internal/store/analytics"
)

type fakeBookmarkStore struct {
	bookmarks []models.Bookmark
	clock     time.Time
}

func newFakeBookmarkStore() *fakeBookmarkStore {
	return &fakeBookmarkStore{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeBookmarkStore) GetBookmarksByUserID(userID uuid.UUID) ([]models.Bookmark, error) {
	out := []models.Bookmark{}
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookmarkStore) CreateBookmark(title string, url string, userID uuid.UUID) (*models.Bookmark, error) {
	f.clock = f.clock.Add(time.Minute)
	bookmark := models.Bookmark{
		Id:         uuid.New(),
		UserID:     userID,
		Title:      title,
		URL:        url,
		Created_At: f.clock,
	}
	// Newest first, mirroring the ORDER BY created_at DESC read.
	f.bookmarks = append([]models.Bookmark{bookmark}, f.bookmarks...)
	return &bookmark, nil
}

func (f *fakeBookmarkStore) DeleteBookmark(id uuid.UUID, userID uuid.UUID) error {
	for i, b := range f.bookmarks {
		if b.Id == id && b.UserID == userID {
			f.bookmarks = append(f.bookmarks[:i], f.bookmarks[i+1:]...)
			return nil
		}
	}
	return store.ErrBookmarkNotFound
}

type fakeBroker struct {
	published int
	sub       *realtime.Subscription
	closes    int
}

func newFakeBroker() *fakeBroker {
	b := &fakeBroker{}
	b.sub = realtime.NewSubscription(func() error {
		b.closes++
		return nil
	})
	return b
}

func (f *fakeBroker) Publish(ctx context.Context, userID uuid.UUID) error {
	f.published++
	f.sub.Notify()
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, userID uuid.UUID) (*realtime.Subscription, error) {
	return f.sub, nil
}

type fakeEventStore struct {
	events chan string
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(chan string, 16)}
}

func (f *fakeEventStore) RecordBookmarkEvent(ctx context.Context, eventType string, userID uuid.UUID, bookmarkID uuid.UUID, domain string) error {
	f.events <- eventType
	return nil
}

func (f *fakeEventStore) GetActivityByUserID(ctx context.Context, userID uuid.UUID, since time.Time) ([]analytics.DailyActivity, error) {
	return nil, nil
}

func newTestBookmarkHandler() (*BookmarkHandler, *fakeBookmarkStore, *fakeBroker, *fakeEventStore) {
	bookmarkStore := newFakeBookmarkStore()
	broker := newFakeBroker()
	eventStore := newFakeEventStore()
	logger := log.New(os.Stdout, "TEST: ", log.Ldate|log.Ltime)
	return NewBookmarkHandler(bookmarkStore, eventStore, broker, logger), bookmarkStore, broker, eventStore
}

func authedRequest(method, target, body string, user *models.User) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), middlewares.UserContextKey, user))
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) []models.Bookmark {
	t.Helper()

	var body struct {
		Data []models.Bookmark `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Data
}

func TestGetBookmarksRequiresUser(t *testing.T) {
	handler, _, _, _ := newTestBookmarkHandler()

	rec := httptest.NewRecorder()
	handler.HandlerGetBookmarks(rec, authedRequest(http.MethodGet, "/api/v1/bookmarks", "", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestGetBookmarksScopedToOwner(t *testing.T) {
	handler, bookmarkStore, _, _ := newTestBookmarkHandler()

	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Email: "bob@example.com"}

	bookmarkStore.CreateBookmark("Alice one", "https://a1.example.com", alice.ID)
	bookmarkStore.CreateBookmark("Bob one", "https://b1.example.com", bob.ID)
	bookmarkStore.CreateBookmark("Alice two", "https://a2.example.com", alice.ID)

	rec := httptest.NewRecorder()
	handler.HandlerGetBookmarks(rec, authedRequest(http.MethodGet, "/api/v1/bookmarks", "", alice))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	bookmarks := decodeData(t, rec)
	if len(bookmarks) != 2 {
		t.Fatalf("got %d bookmarks, want 2", len(bookmarks))
	}
	for _, b := range bookmarks {
		if b.UserID != alice.ID {
			t.Errorf("bookmark %q has owner %s, want %s", b.Title, b.UserID, alice.ID)
		}
	}
	// Newest first.
	for i := 1; i < len(bookmarks); i++ {
		if bookmarks[i-1].Created_At.Before(bookmarks[i].Created_At) {
			t.Errorf("bookmarks out of order: %v before %v", bookmarks[i-1].Created_At, bookmarks[i].Created_At)
		}
	}
	if bookmarks[0].Title != "Alice two" {
		t.Errorf("first bookmark = %q, want %q", bookmarks[0].Title, "Alice two")
	}
}

func TestCreateBookmarkRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "blank title", body: `{"title": "", "url": "https://x.com"}`},
		{name: "blank url", body: `{"title": "Title", "url": ""}`},
		{name: "whitespace only", body: `{"title": "   ", "url": "  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, bookmarkStore, broker, _ := newTestBookmarkHandler()
			user := &models.User{ID: uuid.New(), Email: "someone@example.com"}

			rec := httptest.NewRecorder()
			handler.HandlerCreateBookmark(rec, authedRequest(http.MethodPost, "/api/v1/bookmarks", tt.body, user))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(bookmarkStore.bookmarks) != 0 {
				t.Errorf("store mutated on invalid input: %d bookmarks", len(bookmarkStore.bookmarks))
			}
			if broker.published != 0 {
				t.Errorf("change signal published on invalid input")
			}
		})
	}
}

func TestCreateBookmarkOwnerComesFromSession(t *testing.T) {
	handler, bookmarkStore, broker, eventStore := newTestBookmarkHandler()
	user := &models.User{ID: uuid.New(), Email: "someone@example.com"}

	// A caller-supplied user_id must be ignored.
	body := `{"title": " Docs ", "url": "https://docs.example.com", "user_id": "11111111-1111-1111-1111-111111111111"}`
	rec := httptest.NewRecorder()
	handler.HandlerCreateBookmark(rec, authedRequest(http.MethodPost, "/api/v1/bookmarks", body, user))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	if len(bookmarkStore.bookmarks) != 1 {
		t.Fatalf("got %d bookmarks, want 1", len(bookmarkStore.bookmarks))
	}
	created := bookmarkStore.bookmarks[0]
	if created.UserID != user.ID {
		t.Errorf("owner = %s, want session user %s", created.UserID, user.ID)
	}
	if created.Title != "Docs" {
		t.Errorf("title = %q, want trimmed %q", created.Title, "Docs")
	}
	if broker.published != 1 {
		t.Errorf("published %d change signals, want 1", broker.published)
	}

	select {
	case eventType := <-eventStore.events:
		if eventType != analytics.EventBookmarkCreated {
			t.Errorf("event type = %q, want %q", eventType, analytics.EventBookmarkCreated)
		}
	case <-time.After(time.Second):
		t.Error("no analytics event recorded")
	}
}

func TestDeleteBookmarkRemovesFromList(t *testing.T) {
	handler, bookmarkStore, broker, _ := newTestBookmarkHandler()
	user := &models.User{ID: uuid.New(), Email: "someone@example.com"}

	created, err := bookmarkStore.CreateBookmark("Docs", "https://docs.example.com", user.ID)
	if err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodDelete, "/api/v1/bookmarks/"+created.Id.String(), "", user)
	req = withURLParam(req, "id", created.Id.String())
	rec := httptest.NewRecorder()
	handler.HandlerDeleteBookmark(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if broker.published != 1 {
		t.Errorf("published %d change signals, want 1", broker.published)
	}

	rec = httptest.NewRecorder()
	handler.HandlerGetBookmarks(rec, authedRequest(http.MethodGet, "/api/v1/bookmarks", "", user))
	for _, b := range decodeData(t, rec) {
		if b.Id == created.Id {
			t.Errorf("deleted bookmark %s still present", created.Id)
		}
	}
}

func TestDeleteBookmarkUnknownIDIsNotFound(t *testing.T) {
	handler, _, broker, _ := newTestBookmarkHandler()
	user := &models.User{ID: uuid.New(), Email: "someone@example.com"}

	id := uuid.New().String()
	req := authedRequest(http.MethodDelete, "/api/v1/bookmarks/"+id, "", user)
	req = withURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	handler.HandlerDeleteBookmark(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if broker.published != 0 {
		t.Errorf("change signal published for failed delete")
	}
}

func TestDeleteBookmarkOtherOwnersRowIsNotFound(t *testing.T) {
	handler, bookmarkStore, _, _ := newTestBookmarkHandler()
	alice := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Email: "bob@example.com"}

	created, err := bookmarkStore.CreateBookmark("Alice's", "https://a.example.com", alice.ID)
	if err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodDelete, "/api/v1/bookmarks/"+created.Id.String(), "", bob)
	req = withURLParam(req, "id", created.Id.String())
	rec := httptest.NewRecorder()
	handler.HandlerDeleteBookmark(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(bookmarkStore.bookmarks) != 1 {
		t.Errorf("bookmark deleted across owners")
	}
}

func TestStreamBookmarkChanges(t *testing.T) {
	handler, _, broker, _ := newTestBookmarkHandler()
	user := &models.User{ID: uuid.New(), Email: "someone@example.com"}

	// A signal is already pending when the stream opens.
	broker.sub.Notify()

	req := authedRequest(http.MethodGet, "/api/v1/bookmarks/live", "", user)
	ctx, cancel := context.WithTimeout(req.Context(), 200*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.HandlerStreamBookmarkChanges(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want %q", got, "text/event-stream")
	}
	if !strings.Contains(rec.Body.String(), "event: change") {
		t.Errorf("stream body missing change event: %q", rec.Body.String())
	}
	if broker.closes != 1 {
		t.Errorf("subscription closed %d times, want exactly 1", broker.closes)
	}
}
