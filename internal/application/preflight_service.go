package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/rules"
	"github.com/fairyhq/fairy/internal/logging"
)

// RulepackLoader loads a compiled rulepack. An empty path means the
// built-in default.
type RulepackLoader interface {
	Load(path string) (*rules.Rulepack, error)
}

// PreflightRequest describes one rulepack run over a samples/files pair.
type PreflightRequest struct {
	ProjectPath  string
	SamplesPath  string
	FilesPath    string
	RulepackPath string
	// RecordHistory appends the run to the project's history.
	RecordHistory bool
}

// PreflightService orchestrates the rulepack path:
// load rulepack → load tables → run rules → stamp provenance → record.
type PreflightService struct {
	tables    domain.TableLoader
	rulepacks RulepackLoader
	git       domain.GitInfo
	history   domain.RunHistory
	baseline  domain.BaselineStore
	version   string
	now       func() time.Time
	newID     func() string
}

func NewPreflightService(
	tables domain.TableLoader,
	rulepacks RulepackLoader,
	git domain.GitInfo,
	history domain.RunHistory,
	version string,
) *PreflightService {
	return &PreflightService{
		tables:    tables,
		rulepacks: rulepacks,
		git:       git,
		history:   history,
		version:   version,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock overrides the time source.
func (s *PreflightService) WithClock(now func() time.Time) *PreflightService {
	s.now = now
	return s
}

// WithBaseline enables CompareBaseline.
func (s *PreflightService) WithBaseline(store domain.BaselineStore) *PreflightService {
	s.baseline = store
	return s
}

// CompareBaseline diffs rep against the project's previous baseline and
// makes rep the new baseline. Without a store it returns an empty Drift.
func (s *PreflightService) CompareBaseline(projectPath string, rep domain.Report) (domain.Drift, error) {
	if s.baseline == nil {
		return domain.DiffFindings(nil, rep), nil
	}
	prev, err := s.baseline.Load(projectPath)
	if err != nil {
		// A corrupt baseline is replaced rather than blocking the run.
		prev = nil
	}
	drift := domain.DiffFindings(prev, rep)
	if err := s.baseline.Save(projectPath, rep); err != nil {
		return drift, fmt.Errorf("saving baseline: %w", err)
	}
	return drift, nil
}

// Run evaluates the rulepack. The files table is optional; without it the
// cross-table rules see an empty table.
func (s *PreflightService) Run(ctx context.Context, req PreflightRequest) (*domain.Report, error) {
	runID := s.newID()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.FromContext(ctx)

	pack, err := s.rulepacks.Load(req.RulepackPath)
	if err != nil {
		return nil, fmt.Errorf("loading rulepack: %w", err)
	}
	log.Info("preflight started", "rulepack", pack.ID, "version", pack.Version, "rules", len(pack.Rules))

	samples, err := s.tables.Load(req.SamplesPath)
	if err != nil {
		return nil, fmt.Errorf("loading samples table: %w", err)
	}
	inputs := []domain.InputDigest{digest("samples", samples)}

	var filesTable *domain.Table
	var files *domain.LoadedTable
	if req.FilesPath != "" {
		files, err = s.tables.Load(req.FilesPath)
		if err != nil {
			return nil, fmt.Errorf("loading files table: %w", err)
		}
		filesTable = files.Table
		inputs = append(inputs, digest("files", files))
	}

	rep := rules.Run(pack, samples.Table, filesTable, rules.Options{
		ToolVersion: s.version,
		Now:         s.now(),
		Logger:      log,
	})
	rep.RunID = runID
	rep.Inputs = inputs

	if s.git != nil && req.ProjectPath != "" {
		if hash, err := s.git.CommitHash(req.ProjectPath); err == nil {
			rep.CommitHash = hash
		} else {
			log.Debug("no commit hash", "error", err)
		}
	}

	log.Info("preflight finished",
		"submission_ready", rep.Attestation.SubmissionReady,
		"fail", rep.Attestation.FailCount,
		"warn", rep.Attestation.WarnCount,
	)

	if req.RecordHistory && s.history != nil && req.ProjectPath != "" {
		entry := domain.RunEntry{
			RunID:           runID,
			RunAtUTC:        rep.Attestation.RunAtUTC,
			RulepackID:      rep.Attestation.RulepackID,
			RulepackVersion: rep.Attestation.RulepackVersion,
			CommitHash:      rep.CommitHash,
			SubmissionReady: rep.Attestation.SubmissionReady,
			FailCount:       rep.Attestation.FailCount,
			WarnCount:       rep.Attestation.WarnCount,
			SamplesSHA256:   samples.SHA256,
		}
		if files != nil {
			entry.FilesSHA256 = files.SHA256
		}
		if err := s.history.Save(req.ProjectPath, entry); err != nil {
			log.Warn("could not record run history", "error", err)
		}
	}

	return &rep, nil
}

// Rulepack loads the rulepack a run would use.
func (s *PreflightService) Rulepack(path string) (*rules.Rulepack, error) {
	return s.rulepacks.Load(path)
}

func digest(role string, t *domain.LoadedTable) domain.InputDigest {
	return domain.InputDigest{
		Role:   role,
		Path:   t.Path,
		SHA256: t.SHA256,
		Rows:   t.Table.NumRows(),
		Cols:   t.Table.NumCols(),
	}
}
