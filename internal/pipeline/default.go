package pipeline

import (
	"github.com/nao1215/csvhash/internal/config"
	"github.com/nao1215/csvhash/internal/digest"
	"github.com/nao1215/csvhash/internal/model"
	"github.com/nao1215/csvhash/internal/residual"
	"github.com/nao1215/csvhash/internal/table"
)

// DefaultPipeline assembles the standard step sequence for cfg:
// load, guard, digest, collision, project, residual and write. The residual
// step is left out when cfg.SkipResidualScan is set.
//
// The digest algorithm is resolved here, so an unsupported algorithm is
// reported before the input file is opened.
func DefaultPipeline(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	hasher, err := digest.NewHasher(cfg.Algorithm, cfg.Salt)
	if err != nil {
		return nil, err
	}

	p := New(opts...)
	p.AddSteps(
		NewLoadStep(table.ReadOptions{
			Delimiter: cfg.DelimiterRune(),
			Encoding:  cfg.Encoding,
		}, p.logger),
		NewGuardStep(),
		NewDigestStep(hasher,
			WithTruncateLength(cfg.TruncateLength),
			WithConcurrency(cfg.Concurrency),
			WithDigestLogger(p.logger),
		),
		NewCollisionStep(p.logger),
		NewProjectStep(cfg.Schema),
	)
	if !cfg.SkipResidualScan {
		scanner := residual.NewScanner(residual.WithConcurrency(cfg.Concurrency))
		p.AddStep(NewResidualStep(scanner, cfg.Strict, p.logger))
	}
	p.AddStep(NewWriteStep(cfg.DelimiterRune(), p.logger))
	return p, nil
}

// NewRun creates the run state for cfg.
func NewRun(cfg *config.Config) *model.Run {
	run := model.NewRun(cfg.InputPath, cfg.OutputPath, cfg.Column)
	run.Algorithm = digest.CanonicalName(cfg.Algorithm)
	run.Salted = cfg.Salt != ""
	if cfg.TruncateLength > 0 {
		run.TruncateLength = cfg.TruncateLength
	}
	return run
}
