package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"docgen/domain/render"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TemplateJob is one template to render in a batch run.
type TemplateJob struct {
	Name string
	Text string
}

// Artifact describes one rendered output file.
type Artifact struct {
	JobID      string                       `json:"job_id"`
	Name       string                       `json:"name"`
	Path       string                       `json:"path"`
	Unresolved []render.UnresolvedReference `json:"unresolved,omitempty"`
}

// BatchService maps a workbook once and renders many templates against the
// shared model concurrently. Each job writes to a file named from its own
// job ID, so concurrent batches against the same output directory never
// collide.
type BatchService struct {
	pipeline *PipelineService
	outDir   string
}

// NewBatchService creates a batch runner writing artifacts into outDir.
func NewBatchService(pipeline *PipelineService, outDir string) *BatchService {
	return &BatchService{pipeline: pipeline, outDir: outDir}
}

// Run executes every job against the workbook's model. Caller-level
// cancellation arrives through ctx; the pipeline itself has no internal
// blocking to interrupt.
func (b *BatchService) Run(ctx context.Context, workbookPath string, jobs []TemplateJob) ([]Artifact, error) {
	model, warnings, err := b.pipeline.MapWorkbook(workbookPath)
	if err != nil {
		return nil, err
	}
	for _, warning := range warnings {
		log.Printf("[Batch] %s", warning)
	}

	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	artifacts := make([]Artifact, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rendered, unresolved, err := b.pipeline.RenderTemplate(model, job.Text)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}

			jobID := uuid.NewString()
			path := filepath.Join(b.outDir, artifactFileName(job.Name, jobID))
			if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}

			artifacts[i] = Artifact{JobID: jobID, Name: job.Name, Path: path, Unresolved: unresolved}
			log.Printf("[Batch] Job %q rendered to %s (%d unresolved)", job.Name, path, len(unresolved))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func artifactFileName(jobName, jobID string) string {
	base := strings.TrimSuffix(filepath.Base(jobName), filepath.Ext(jobName))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		base = "artifact"
	}
	return fmt.Sprintf("%s_%s.txt", base, jobID)
}
