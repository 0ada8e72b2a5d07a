package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkravets/kiosk/datastore"
	"github.com/mkravets/kiosk/webutil"
)

// Holds dependencies for poll route handlers.
type PollHandler struct {
	Polls *datastore.PollRepository
}

func NewPollHandler(polls *datastore.PollRepository) *PollHandler {
	return &PollHandler{Polls: polls}
}

type pollVoteRequest struct {
	SelectedOption string `json:"selected_option"`
}

func (h *PollHandler) HandleGetPoll(w http.ResponseWriter, r *http.Request) error {
	pollID, err := parseIDParam(r, "pollID")
	if err != nil {
		return err
	}

	poll, err := h.Polls.GetPollByID(r.Context(), pollID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Poll not found")
		}
		return fmt.Errorf("failed to retrieve poll %d: %w", pollID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, poll)
	return nil
}

func (h *PollHandler) HandleVote(w http.ResponseWriter, r *http.Request) error {
	identity, err := requireIdentity(r)
	if err != nil {
		return err
	}

	pollID, err := parseIDParam(r, "pollID")
	if err != nil {
		return err
	}

	var req pollVoteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.SelectedOption == "" {
		return webutil.ErrBadRequest("Missing required field (selected_option)")
	}

	results, err := h.Polls.Vote(r.Context(), pollID, identity.UserID, req.SelectedOption)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrNotFound):
			return webutil.ErrNotFound("Poll not found")
		case errors.Is(err, datastore.ErrDuplicate):
			return webutil.ErrConflict("You have already voted in this poll")
		case errors.Is(err, datastore.ErrInvalidOption):
			return webutil.ErrBadRequest("Selected option does not exist")
		}
		return fmt.Errorf("failed to record vote in poll %d: %w", pollID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Vote recorded",
		"results": results,
	})
	return nil
}
