package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/models"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for admin article management handlers.
type AdminHandler struct {
	Users      *datastore.UserRepository
	Articles   *datastore.ArticleRepository
	Categories *datastore.CategoryRepository
	Issues     *datastore.IssueRepository
}

func NewAdminHandler(
	users *datastore.UserRepository,
	articles *datastore.ArticleRepository,
	categories *datastore.CategoryRepository,
	issues *datastore.IssueRepository,
) *AdminHandler {
	return &AdminHandler{Users: users, Articles: articles, Categories: categories, Issues: issues}
}

// requireAdmin resolves the caller to a stored user record and checks the
// admin flag. The flag is read from the database on every call, not from
// the token, so revocation takes effect immediately.
func (h *AdminHandler) requireAdmin(r *http.Request) (*models.User, error) {
	identity, err := requireIdentity(r)
	if err != nil {
		return nil, err
	}

	user, err := h.Users.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, webutil.ErrForbidden("Administrator access required")
		}
		return nil, fmt.Errorf("failed to resolve admin user %d: %w", identity.UserID, err)
	}
	if !user.IsAdmin {
		return nil, webutil.ErrForbidden("Administrator access required")
	}
	return user, nil
}

type articleCreateRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"image_url"`
	CategoryID int64   `json:"category_id"`
	IssueID    *int64  `json:"issue_id"`
	IsPremium  bool    `json:"is_premium"`
}

type articleUpdateRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	ImageURL   *string `json:"image_url"`
	CategoryID *int64  `json:"category_id"`
	IssueID    *int64  `json:"issue_id"`
	IsPremium  *bool   `json:"is_premium"`
}

// validateReferences checks that a referenced category and issue exist
// before an article write touches them.
func (h *AdminHandler) validateReferences(r *http.Request, categoryID *int64, issueID *int64) error {
	if categoryID != nil {
		if _, err := h.Categories.GetCategoryByID(r.Context(), *categoryID); err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				return webutil.ErrNotFound("Category not found")
			}
			return fmt.Errorf("failed to validate category %d: %w", *categoryID, err)
		}
	}
	if issueID != nil {
		if _, err := h.Issues.GetIssueByID(r.Context(), *issueID); err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				return webutil.ErrNotFound("Issue not found")
			}
			return fmt.Errorf("failed to validate issue %d: %w", *issueID, err)
		}
	}
	return nil
}

func (h *AdminHandler) HandleCreateArticle(w http.ResponseWriter, r *http.Request) error {
	admin, err := h.requireAdmin(r)
	if err != nil {
		return err
	}

	var req articleCreateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Title == "" || req.Content == "" || req.CategoryID == 0 {
		return webutil.ErrBadRequest("Missing required fields (title, content, category_id)")
	}

	if err := h.validateReferences(r, &req.CategoryID, req.IssueID); err != nil {
		return err
	}

	article := models.Article{
		Title:      req.Title,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		AuthorID:   admin.ID,
		CategoryID: req.CategoryID,
		IssueID:    req.IssueID,
		IsPremium:  req.IsPremium,
	}

	if err := h.Articles.CreateArticle(r.Context(), &article); err != nil {
		return fmt.Errorf("failed to create article %q: %w", req.Title, err)
	}

	// Re-fetch with author and category joined for the response shape.
	created, err := h.Articles.GetArticleByID(r.Context(), article.ID)
	if err != nil {
		return fmt.Errorf("failed to load created article %d: %w", article.ID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, created)
	return nil
}

func (h *AdminHandler) HandleUpdateArticle(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.requireAdmin(r); err != nil {
		return err
	}

	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	var req articleUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if err := h.validateReferences(r, req.CategoryID, req.IssueID); err != nil {
		return err
	}

	update := datastore.ArticleUpdate{
		Title:      req.Title,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		IssueID:    req.IssueID,
		IsPremium:  req.IsPremium,
	}

	if err := h.Articles.UpdateArticle(r.Context(), articleID, update); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Article not found")
		}
		return fmt.Errorf("failed to update article %d: %w", articleID, err)
	}

	updated, err := h.Articles.GetArticleByID(r.Context(), articleID)
	if err != nil {
		return fmt.Errorf("failed to load updated article %d: %w", articleID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

func (h *AdminHandler) HandleDeleteArticle(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.requireAdmin(r); err != nil {
		return err
	}

	articleID, err := parseIDParam(r, "articleID")
	if err != nil {
		return err
	}

	if err := h.Articles.DeleteArticle(r.Context(), articleID); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Article not found")
		}
		return fmt.Errorf("failed to delete article %d: %w", articleID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// HandleListArticles returns every article regardless of premium flag, with
// full content. Admin-only.
func (h *AdminHandler) HandleListArticles(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.requireAdmin(r); err != nil {
		return err
	}

	articles, err := h.Articles.GetAllArticles(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, articles)
	return nil
}
