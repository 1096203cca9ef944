package residual

import (
	"context"
	"runtime"

	"github.com/nao1215/csvhash/internal/model"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 1024

// Column is one named column of values to scan.
type Column struct {
	Name   string
	Values []string
}

// Scanner runs detectors over table columns.
type Scanner struct {
	detectors   []Detector
	concurrency int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDetectors replaces the built-in detectors.
func WithDetectors(detectors ...Detector) Option {
	return func(s *Scanner) {
		s.detectors = detectors
	}
}

// WithConcurrency bounds the number of columns scanned at once.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewScanner creates a Scanner with the default detectors.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		detectors:   DefaultDetectors(),
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kinds returns the identifier kinds the scanner looks for, in order.
func (s *Scanner) Kinds() []string {
	kinds := make([]string, len(s.detectors))
	for i, d := range s.detectors {
		kinds[i] = d.Kind()
	}
	return kinds
}

// Scan runs every detector over every column.
// Findings are ordered by column, then by detector registration order.
// A detector with no match produces no finding.
func (s *Scanner) Scan(ctx context.Context, columns []Column) ([]model.ResidualFinding, error) {
	perColumn := make([][]model.ResidualFinding, len(columns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, col := range columns {
		g.Go(func() error {
			findings, err := s.scanColumn(ctx, col)
			if err != nil {
				return err
			}
			perColumn[i] = findings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var findings []model.ResidualFinding
	for _, f := range perColumn {
		findings = append(findings, f...)
	}
	return findings, nil
}

// scanColumn counts matching rows per detector for one column.
func (s *Scanner) scanColumn(ctx context.Context, col Column) ([]model.ResidualFinding, error) {
	counts := make([]int, len(s.detectors))
	first := make([]int, len(s.detectors))

	for row, value := range col.Values {
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if value == "" {
			continue
		}
		for i, d := range s.detectors {
			if !d.Match(value) {
				continue
			}
			if counts[i] == 0 {
				first[i] = row
			}
			counts[i]++
		}
	}

	var findings []model.ResidualFinding
	for i, d := range s.detectors {
		if counts[i] == 0 {
			continue
		}
		findings = append(findings, model.ResidualFinding{
			Column:   col.Name,
			Kind:     d.Kind(),
			Severity: model.GetSeverity(d.Kind()),
			Count:    counts[i],
			FirstRow: first[i],
		})
	}
	return findings, nil
}
