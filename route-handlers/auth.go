package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkravets/kiosk/auth"
	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/models"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for registration and login handlers.
type AuthHandler struct {
	Users  *datastore.UserRepository
	Tokens *auth.TokenService
}

func NewAuthHandler(users *datastore.UserRepository, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return webutil.ErrBadRequest("Missing required fields (username, email, password)")
	}

	hashed, err := webutil.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password for %q: %w", req.Username, err)
	}

	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
	}

	if err := h.Users.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, datastore.ErrDuplicate) {
			return webutil.ErrConflict("Username or email already taken")
		}
		return fmt.Errorf("failed to create user %q: %w", req.Username, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, user)
	return nil
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	user, err := h.Users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrUnauthorized("Invalid username or password")
		}
		return fmt.Errorf("failed to look up user %q: %w", req.Username, err)
	}

	if !webutil.CheckPassword(user.HashedPassword, req.Password) {
		return webutil.ErrUnauthorized("Invalid username or password")
	}

	token, err := h.Tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("failed to issue token for %q: %w", req.Username, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	return nil
}
