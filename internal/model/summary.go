package model

import "time"

// GroupSummary describes one collision group without its member values.
type GroupSummary struct {
	// Truncated is the shared truncated digest.
	Truncated string `json:"truncated"`

	// Size is the number of rows in the group.
	Size int `json:"size"`

	// Rows lists the zero-based row positions of the members.
	Rows []int `json:"rows"`
}

// Summary is a presentation snapshot of a run.
// It never contains source values, only digests and counts, so it can be
// printed, logged or stored without exposing personal data.
type Summary struct {
	RunID          string            `json:"run_id"`
	StartedAt      time.Time         `json:"started_at"`
	Duration       time.Duration     `json:"duration"`
	InputPath      string            `json:"input_path"`
	OutputPath     string            `json:"output_path"`
	Column         string            `json:"column"`
	Algorithm      string            `json:"algorithm"`
	Salted         bool              `json:"salted"`
	TruncateLength int               `json:"truncate_length"`
	TotalRows      int               `json:"total_rows"`
	GroupCount     int               `json:"group_count"`
	CollidingRows  int               `json:"colliding_rows"`
	Percentage     float64           `json:"percentage"`
	Groups         []GroupSummary    `json:"groups,omitempty"`
	ClashLogPath   string            `json:"clash_log_path,omitempty"`
	Residuals      []ResidualFinding `json:"residuals,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// NewSummary builds a Summary from a run.
func NewSummary(run *Run) *Summary {
	s := &Summary{
		RunID:          run.ID,
		StartedAt:      run.StartedAt,
		Duration:       run.Duration(),
		InputPath:      run.InputPath,
		OutputPath:     run.OutputPath,
		Column:         run.Column,
		Algorithm:      run.Algorithm,
		Salted:         run.Salted,
		TruncateLength: run.TruncateLength,
		TotalRows:      run.TotalRows(),
		ClashLogPath:   run.ClashLogPath,
		Residuals:      run.Residuals,
		Error:          run.ErrorMessage,
	}

	if run.Collisions == nil {
		return s
	}

	s.GroupCount = run.Collisions.GroupCount()
	s.CollidingRows = run.Collisions.CollidingRows
	s.Percentage = run.Collisions.Percentage()
	s.Groups = make([]GroupSummary, 0, len(run.Collisions.Groups))
	for _, g := range run.Collisions.Groups {
		rows := make([]int, len(g.Members))
		for i, m := range g.Members {
			rows[i] = m.Row
		}
		s.Groups = append(s.Groups, GroupSummary{
			Truncated: g.Truncated,
			Size:      g.Size(),
			Rows:      rows,
		})
	}
	return s
}

// CollisionChecked reports whether collision detection ran.
func (s *Summary) CollisionChecked() bool {
	return s.TruncateLength > 0
}

// HasCollisions reports whether any collision group was found.
func (s *Summary) HasCollisions() bool {
	return s.GroupCount > 0
}

// HasResiduals reports whether the residual scan flagged any column.
func (s *Summary) HasResiduals() bool {
	return len(s.Residuals) > 0
}
