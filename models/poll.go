package models

// Poll is a reader poll: an ordered list of option labels and a tally map
// from label to accumulated vote count. Options and results are stored as
// JSON text columns and decoded by the datastore layer.
type Poll struct {
	ID        int64          `json:"id"`
	Question  string         `json:"question"`
	Options   []string       `json:"options"`
	Results   map[string]int `json:"results"`
	ArticleID *int64         `json:"article_id"`
}

// HasOption reports whether label is among the poll's configured options.
func (p *Poll) HasOption(label string) bool {
	for _, opt := range p.Options {
		if opt == label {
			return true
		}
	}
	return false
}

type PollVote struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	PollID         int64  `json:"poll_id"`
	SelectedOption string `json:"selected_option"`
}
