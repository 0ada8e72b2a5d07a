package routehandlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/models"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for profile and bookmark route handlers.
type ProfileHandler struct {
	Users         *datastore.UserRepository
	Bookmarks     *datastore.SavedArticleRepository
	Subscriptions *datastore.SubscriptionRepository
}

func NewProfileHandler(
	users *datastore.UserRepository,
	bookmarks *datastore.SavedArticleRepository,
	subscriptions *datastore.SubscriptionRepository,
) *ProfileHandler {
	return &ProfileHandler{Users: users, Bookmarks: bookmarks, Subscriptions: subscriptions}
}

func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	user, err := h.Users.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("User not found")
		}
		return fmt.Errorf("failed to retrieve user %d: %w", identity.UserID, err)
	}

	isPremium, err := h.Subscriptions.HasActiveSubscription(r.Context(), user.ID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to check subscription for user %d: %w", user.ID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"user_id":    user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"is_premium": isPremium,
	})
	return nil
}

// HandleGetBookmarks lists the caller's bookmarks, newest save first. Every
// article body is previewed regardless of entitlement: the bookmark list is
// a navigation surface, not a reading surface.
func (h *ProfileHandler) HandleGetBookmarks(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	bookmarks, err := h.Bookmarks.GetSavedArticles(r.Context(), identity.UserID)
	if err != nil {
		return fmt.Errorf("failed to retrieve bookmarks for user %d: %w", identity.UserID, err)
	}

	for i := range bookmarks {
		bookmarks[i].Article.Content = models.PreviewContent(bookmarks[i].Article.Content)
	}

	webutil.RespondWithJSON(w, http.StatusOK, bookmarks)
	return nil
}

func (h *ProfileHandler) HandleAddBookmark(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	savedID, err := h.Bookmarks.SaveArticle(r.Context(), identity.UserID, articleID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrNotFound):
			return webutil.ErrNotFound("Article not found")
		case errors.Is(err, datastore.ErrDuplicate):
			return webutil.ErrConflict("Article is already bookmarked")
		}
		return fmt.Errorf("failed to bookmark article %d: %w", articleID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message":          "Article bookmarked",
		"saved_article_id": savedID,
	})
	return nil
}

func (h *ProfileHandler) HandleRemoveBookmark(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	if err := h.Bookmarks.RemoveSavedArticle(r.Context(), identity.UserID, articleID); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Bookmark not found")
		}
		return fmt.Errorf("failed to remove bookmark for article %d: %w", articleID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
