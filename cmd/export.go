package main

import (
	"context"

	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/desertthunder/coursebook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes an availability report for every course plus a manifest.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	}

	r.logger.Info("starting availability export", "format", opts.Format, "workers", opts.NumWorkers)
	exporter := tasks.NewAvailabilityExporter(r.service, shared.WithLogger(r.logger, "component", "export"))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCourses, tasks.WriteManifest:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportCourse:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := exporter.Export(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Courses: %d\n", result.TotalCourses)
	r.writePlain("Exported: %d\n", result.SuccessfulExports)
	r.writePlain("Failed: %d\n", result.FailedExports)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed courses:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.Course, res.Error)
			}
		}
	}

	return err
}
