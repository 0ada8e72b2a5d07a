package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/mkravets/kiosk/auth"
	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/models"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for article catalog route handlers.
type ArticleHandler struct {
	Articles      *datastore.ArticleRepository
	Categories    *datastore.CategoryRepository
	Subscriptions *datastore.SubscriptionRepository
}

func NewArticleHandler(
	articles *datastore.ArticleRepository,
	categories *datastore.CategoryRepository,
	subscriptions *datastore.SubscriptionRepository,
) *ArticleHandler {
	return &ArticleHandler{Articles: articles, Categories: categories, Subscriptions: subscriptions}
}

// isPremiumEntitled recomputes premium entitlement for the caller: false for
// anonymous requests, otherwise true iff an active, unexpired subscription
// row exists. Never cached.
func (h *ArticleHandler) isPremiumEntitled(ctx context.Context, identity *auth.Identity, now time.Time) (bool, error) {
	if identity == nil {
		return false, nil
	}
	entitled, err := h.Subscriptions.HasActiveSubscription(ctx, identity.UserID, now)
	if err != nil {
		return false, fmt.Errorf("failed to check premium entitlement: %w", err)
	}
	return entitled, nil
}

// applyPreview replaces premium article bodies with a 200-rune preview for
// callers without entitlement. Free articles pass through untouched.
func applyPreview(articles []models.Article, entitled bool) {
	if entitled {
		return
	}
	for i := range articles {
		if articles[i].IsPremium {
			articles[i].Content = models.PreviewContent(articles[i].Content)
		}
	}
}

func (h *ArticleHandler) HandleListArticles(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	page := 1
	if rawPage := query.Get("page"); rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil || parsed < 1 {
			return webutil.ErrBadRequest("Page must be a positive integer")
		}
		page = parsed
	}

	params := datastore.ListArticlesParams{
		Sort:   query.Get("sort"),
		Limit:  datastore.DefaultPageSize,
		Offset: (page - 1) * datastore.DefaultPageSize,
	}

	if slug := query.Get("category"); slug != "" {
		category, err := h.Categories.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				return webutil.ErrNotFound(fmt.Sprintf("Category '%s' not found", slug))
			}
			return fmt.Errorf("failed to resolve category %q: %w", slug, err)
		}
		params.CategoryID = &category.ID
	}

	articles, err := h.Articles.ListArticles(r.Context(), params)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	entitled, err := h.isPremiumEntitled(r.Context(), auth.IdentityFromContext(r.Context()), time.Now().UTC())
	if err != nil {
		return err
	}
	applyPreview(articles, entitled)

	webutil.RespondWithJSON(w, http.StatusOK, articles)
	return nil
}

// HandleGetAllArticlesRandom returns every article in a fresh shuffled
// order on each call.
func (h *ArticleHandler) HandleGetAllArticlesRandom(w http.ResponseWriter, r *http.Request) error {
	articles, err := h.Articles.GetAllArticles(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve articles: %w", err)
	}

	rand.Shuffle(len(articles), func(i, j int) {
		articles[i], articles[j] = articles[j], articles[i]
	})

	entitled, err := h.isPremiumEntitled(r.Context(), auth.IdentityFromContext(r.Context()), time.Now().UTC())
	if err != nil {
		return err
	}
	applyPreview(articles, entitled)

	webutil.RespondWithJSON(w, http.StatusOK, articles)
	return nil
}

func (h *ArticleHandler) HandleGetArticle(w http.ResponseWriter, r *http.Request) error {
	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	article, err := h.Articles.GetArticleByID(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Article not found")
		}
		return fmt.Errorf("failed to retrieve article %d: %w", articleID, err)
	}

	if article.IsPremium {
		entitled, err := h.isPremiumEntitled(r.Context(), auth.IdentityFromContext(r.Context()), time.Now().UTC())
		if err != nil {
			return err
		}
		// Entitlement is checked before the view counter moves: a denied
		// read does not inflate the metric.
		if !entitled {
			return webutil.ErrForbidden("This article is available to premium subscribers only. Please purchase a subscription.")
		}
	}

	if err := h.Articles.IncrementViews(r.Context(), articleID); err != nil {
		return fmt.Errorf("failed to increment views for article %d: %w", articleID, err)
	}
	article.ViewsCount++

	webutil.RespondWithJSON(w, http.StatusOK, article)
	return nil
}

func (h *ArticleHandler) HandleLikeArticle(w http.ResponseWriter, r *http.Request) error {
	if _, err := requireIdentity(r); err != nil {
		return err
	}

	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	likes, err := h.Articles.IncrementLikes(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Article not found")
		}
		return fmt.Errorf("failed to like article %d: %w", articleID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Article liked",
		"likes_count": likes,
	})
	return nil
}

func (h *ArticleHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.Categories.GetCategories(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve categories: %w", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, categories)
	return nil
}
