package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkravets/kiosk/auth"
	rh "github.com/mkravets/kiosk/route-handlers"
	"github.com/mkravets/kiosk/webutil"
)

const (
	authBasePath         = "/auth"
	articlesBasePath     = "/articles"
	pollsBasePath        = "/polls"
	profileBasePath      = "/profile"
	subscriptionBasePath = "/subscription"
	adminBasePath        = "/admin"
)

const (
	paramArticleID = "articleID"
	paramPollID    = "pollID"
)

func SetupRoutes(
	tokens *auth.TokenService,
	authHandler *rh.AuthHandler,
	articleHandler *rh.ArticleHandler,
	pollHandler *rh.PollHandler,
	profileHandler *rh.ProfileHandler,
	subscriptionHandler *rh.SubscriptionHandler,
	adminHandler *rh.AdminHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                                                 // Log every request
	r.Use(middleware.Recoverer)                                              // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second))                              // Set a timeout context for requests
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type
	r.Use(Authenticate(tokens))                                              // Resolve bearer token to identity

	configureAuthRoutes(r, authHandler)
	configureArticleRoutes(r, articleHandler)
	configurePollRoutes(r, pollHandler)
	configureProfileRoutes(r, profileHandler)
	configureSubscriptionRoutes(r, subscriptionHandler)
	configureAdminRoutes(r, adminHandler)

	r.Get("/", webutil.MakeHandler(handleRoot))

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Auth Routes ---
func configureAuthRoutes(r chi.Router, handler *rh.AuthHandler) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Post("/register", webutil.MakeHandler(handler.HandleRegister))
		r.Post("/token", webutil.MakeHandler(handler.HandleLogin))
	})
}

// --- Article Routes ---
func configureArticleRoutes(r chi.Router, handler *rh.ArticleHandler) {
	articleSpecificPath := pathWithParam("", paramArticleID) // e.g., "/{articleID}"

	r.Route(articlesBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleListArticles))
		r.Get("/all", webutil.MakeHandler(handler.HandleGetAllArticlesRandom))
		r.Get("/categories/list", webutil.MakeHandler(handler.HandleGetCategories))
		r.Route(articleSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetArticle))
			r.Post("/like", webutil.MakeHandler(handler.HandleLikeArticle))
		})
	})
}

// --- Poll Routes ---
func configurePollRoutes(r chi.Router, handler *rh.PollHandler) {
	pollSpecificPath := pathWithParam("", paramPollID) // e.g., "/{pollID}"

	r.Route(pollsBasePath, func(r chi.Router) {
		r.Route(pollSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetPoll))
			r.Post("/vote", webutil.MakeHandler(handler.HandleVote))
		})
	})
}

// --- Profile Routes ---
func configureProfileRoutes(r chi.Router, handler *rh.ProfileHandler) {
	bookmarkSpecificPath := "/bookmarks" + pathWithParam("", paramArticleID)

	r.Route(profileBasePath, func(r chi.Router) {
		r.Get("/main", webutil.MakeHandler(handler.HandleGetProfile))
		r.Get("/bookmarks", webutil.MakeHandler(handler.HandleGetBookmarks))
		r.Post(bookmarkSpecificPath, webutil.MakeHandler(handler.HandleAddBookmark))
		r.Delete(bookmarkSpecificPath, webutil.MakeHandler(handler.HandleRemoveBookmark))
	})
}

// --- Subscription Routes ---
func configureSubscriptionRoutes(r chi.Router, handler *rh.SubscriptionHandler) {
	r.Route(subscriptionBasePath, func(r chi.Router) {
		r.Post("/buy", webutil.MakeHandler(handler.HandleBuySubscription))
		r.Get("/status", webutil.MakeHandler(handler.HandleGetStatus))
	})
}

// --- Admin Routes ---
func configureAdminRoutes(r chi.Router, handler *rh.AdminHandler) {
	articleSpecificPath := pathWithParam(articlesBasePath, paramArticleID)

	r.Route(adminBasePath, func(r chi.Router) {
		r.Get(articlesBasePath, webutil.MakeHandler(handler.HandleListArticles))
		r.Post(articlesBasePath, webutil.MakeHandler(handler.HandleCreateArticle))
		r.Put(articleSpecificPath, webutil.MakeHandler(handler.HandleUpdateArticle))
		r.Delete(articleSpecificPath, webutil.MakeHandler(handler.HandleDeleteArticle))
	})
}

// --- Utility Functions ---

// handleRoot responds with a welcome message, including the caller's
// username when authenticated.
func handleRoot(w http.ResponseWriter, r *http.Request) error {
	const welcome = "Welcome to the Kiosk media platform API"

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
			"message": welcome,
			"status":  "Authentication required for full API access",
		})
		return nil
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message":  welcome,
		"username": identity.Username,
	})
	return nil
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
