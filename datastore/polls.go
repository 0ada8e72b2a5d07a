package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mkravets/kiosk/models"
)

type PollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Poll options and results live in JSON text columns; the repository decodes
// them at the boundary so the rest of the code sees typed values.
func decodePoll(poll *models.Poll, optionsJSON, resultsJSON string) error {
	if optionsJSON != "" {
		if err := json.Unmarshal([]byte(optionsJSON), &poll.Options); err != nil {
			return fmt.Errorf("failed to decode poll options: %w", err)
		}
	}
	if poll.Options == nil {
		poll.Options = []string{}
	}
	if resultsJSON != "" {
		if err := json.Unmarshal([]byte(resultsJSON), &poll.Results); err != nil {
			return fmt.Errorf("failed to decode poll results: %w", err)
		}
	}
	if poll.Results == nil {
		poll.Results = map[string]int{}
	}
	return nil
}

func (r *PollRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if poll.Options == nil {
		poll.Options = []string{}
	}
	if poll.Results == nil {
		poll.Results = map[string]int{}
	}

	optionsJSON, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to encode poll options: %w", err)
	}
	resultsJSON, err := json.Marshal(poll.Results)
	if err != nil {
		return fmt.Errorf("failed to encode poll results: %w", err)
	}

	query := `
		INSERT INTO polls (question, options, results, article_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query, poll.Question, string(optionsJSON), string(resultsJSON), poll.ArticleID).Scan(&poll.ID)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

// GetPollByID retrieves a poll with its options and tally decoded.
func (r *PollRepository) GetPollByID(ctx context.Context, pollID int64) (*models.Poll, error) {
	query := `
		SELECT id, question, options, results, article_id
		FROM polls
		WHERE id = $1
	`
	var poll models.Poll
	var optionsJSON, resultsJSON string
	row := r.db.QueryRowContext(ctx, query, pollID)
	err := row.Scan(&poll.ID, &poll.Question, &optionsJSON, &resultsJSON, &poll.ArticleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("poll not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get poll by ID: %w", err)
	}

	if err := decodePoll(&poll, optionsJSON, resultsJSON); err != nil {
		return nil, err
	}
	return &poll, nil
}

// Vote records a user's vote in a poll and returns the updated tally.
//
// Fails with ErrNotFound if the poll is absent, ErrDuplicate if the user has
// already voted in it, and ErrInvalidOption if the chosen option is not among
// the poll's configured list. The tally update and the vote-row insert happen
// in one transaction so the two can never diverge.
func (r *PollRepository) Vote(ctx context.Context, pollID, userID int64, selectedOption string) (map[string]int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback()

	var poll models.Poll
	var optionsJSON, resultsJSON string
	pollQuery := `SELECT id, question, options, results, article_id FROM polls WHERE id = $1`
	err = tx.QueryRowContext(ctx, pollQuery, pollID).Scan(&poll.ID, &poll.Question, &optionsJSON, &resultsJSON, &poll.ArticleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("poll not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get poll for vote: %w", err)
	}
	if err := decodePoll(&poll, optionsJSON, resultsJSON); err != nil {
		return nil, err
	}

	var alreadyVoted bool
	voteCheckQuery := `SELECT EXISTS (SELECT 1 FROM poll_votes WHERE user_id = $1 AND poll_id = $2)`
	if err := tx.QueryRowContext(ctx, voteCheckQuery, userID, pollID).Scan(&alreadyVoted); err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if alreadyVoted {
		return nil, fmt.Errorf("vote in poll %d: %w", pollID, ErrDuplicate)
	}

	if len(poll.Options) > 0 && !poll.HasOption(selectedOption) {
		return nil, fmt.Errorf("option %q: %w", selectedOption, ErrInvalidOption)
	}

	poll.Results[selectedOption]++

	updatedResults, err := json.Marshal(poll.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode updated tally: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE polls SET results = $1 WHERE id = $2`, string(updatedResults), pollID); err != nil {
		return nil, fmt.Errorf("failed to update poll tally: %w", err)
	}

	vote := models.PollVote{UserID: userID, PollID: pollID, SelectedOption: selectedOption}
	insertQuery := `INSERT INTO poll_votes (user_id, poll_id, selected_option) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertQuery, vote.UserID, vote.PollID, vote.SelectedOption); err != nil {
		return nil, fmt.Errorf("failed to insert vote row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return poll.Results, nil
}

// GetVotesByPollID returns the individual vote rows recorded for a poll.
// The tally map is derived from these rows one increment at a time; both are
// written in the same transaction and must never diverge.
func (r *PollRepository) GetVotesByPollID(ctx context.Context, pollID int64) ([]models.PollVote, error) {
	query := `
		SELECT id, user_id, poll_id, selected_option
		FROM poll_votes
		WHERE poll_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll votes: %w", err)
	}
	defer rows.Close()

	var votes []models.PollVote
	for rows.Next() {
		var vote models.PollVote
		if err := rows.Scan(&vote.ID, &vote.UserID, &vote.PollID, &vote.SelectedOption); err != nil {
			return nil, fmt.Errorf("failed to scan poll vote row: %w", err)
		}
		votes = append(votes, vote)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll vote rows: %w", err)
	}

	if votes == nil {
		votes = []models.PollVote{}
	}

	return votes, nil
}
