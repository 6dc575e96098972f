package history

import "time"

// Run is a single recorded optimization.
type Run struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Reason       string    `json:"reason,omitempty"`
	FocusKeyword string    `json:"focus_keyword"`
	HTMLBytes    int       `json:"html_bytes"`
	ScoreBefore  int       `json:"score_before"`
	ScoreAfter   int       `json:"score_after"`
	Improvement  int       `json:"improvement"`
	AppliedRules []string  `json:"applied_rules"`
	DurationMS   int64     `json:"duration_ms"`
	ClientID     string    `json:"client_id,omitempty"`
}

// Stats summarizes recorded runs.
type Stats struct {
	Total              int     `json:"total"`
	Remote             int     `json:"remote"`
	Fallback           int     `json:"fallback"`
	AverageImprovement float64 `json:"average_improvement"`
}
