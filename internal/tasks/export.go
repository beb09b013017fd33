package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/coursebook/internal/formatter"
	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/services"
	"github.com/desertthunder/coursebook/internal/shared"
)

const (
	DefaultExportWorkers = 4
	MaxExportWorkers     = 10
	ManifestFilename     = "export_manifest.json"
)

// ExportOpts contains configuration for an availability export.
type ExportOpts struct {
	Format     string // Export format: json, csv, markdown, txt
	OutputDir  string // Base output directory (default: coursebook_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 4, max: 10)
}

// CourseExportResult is the outcome for one course.
type CourseExportResult struct {
	Course  models.Course
	Report  *formatter.AvailabilityReport
	File    string
	Success bool
	Error   error
}

// ExportResult summarizes an availability export.
type ExportResult struct {
	TotalCourses      int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []CourseExportResult // in catalog order
}

type exportJob struct {
	index  int
	course models.Course
}

// AvailabilityExporter snapshots the slot availability of every course in the catalog.
type AvailabilityExporter struct {
	service services.BookingService
	logger  *log.Logger
	now     func() time.Time
}

// NewAvailabilityExporter creates an exporter reading from svc.
func NewAvailabilityExporter(svc services.BookingService, logger *log.Logger) *AvailabilityExporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AvailabilityExporter{service: svc, logger: logger, now: time.Now}
}

// Export fetches the catalog, then every course's slots through a worker pool, and writes one report per course
// plus a manifest. A course that fails to load is recorded in the result and the manifest; it does not stop the export.
func (e *AvailabilityExporter) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: booking service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("coursebook_export_%d", e.now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultExportWorkers
	}
	if opts.NumWorkers > MaxExportWorkers {
		opts.NumWorkers = MaxExportWorkers
	}

	sendProgress(prog, fetchCoursesUpdate())
	courses, err := e.service.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LoadErrorMessage(CoursesFailedMessage, err), err)
	}
	sendProgress(prog, foundCoursesUpdate(courses))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(courses)
	result := &ExportResult{
		TotalCourses:    total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]CourseExportResult, total),
	}

	jobs := make(chan exportJob, total)
	type indexed struct {
		index int
		res   CourseExportResult
	}
	results := make(chan indexed, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					results <- indexed{job.index, CourseExportResult{Course: job.course, Error: ctx.Err()}}
					continue
				default:
				}
				sendProgress(prog, fetchSlotsUpdate(job.index+1, total, job.course))
				results <- indexed{job.index, e.exportCourse(ctx, job.course, opts)}
			}
		}()
	}

	for i, c := range courses {
		jobs <- exportJob{index: i, course: c}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for r := range results {
		completed++
		result.Results[r.index] = r.res
		if r.res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, r.res.Course, len(r.res.Report.Slots)))
			continue
		}
		result.FailedExports++
		e.logger.Warn("course export failed", "course", r.res.Course, "err", r.res.Error)
		sendProgress(prog, exportFailedUpdate(completed, total, r.res.Course, r.res.Error))
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFilename)
	sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := formatter.WriteManifest(e.manifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *AvailabilityExporter) exportCourse(ctx context.Context, course models.Course, opts ExportOpts) CourseExportResult {
	res := CourseExportResult{Course: course}

	slots, err := e.service.Slots(ctx, course)
	if err != nil {
		res.Error = fmt.Errorf("%s", LoadErrorMessage(SlotsFailedMessage, err))
		return res
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})

	report := &formatter.AvailabilityReport{Course: course, Slots: slots, FetchedAt: e.now()}
	file, err := formatter.WriteReport(report, opts.Format, opts.OutputDir)
	if err != nil {
		res.Error = err
		return res
	}

	res.Report = report
	res.File = file
	res.Success = true
	return res
}

func (e *AvailabilityExporter) manifest(result *ExportResult, format string) *formatter.Manifest {
	m := &formatter.Manifest{
		Endpoint:    e.service.Name(),
		Format:      format,
		GeneratedAt: e.now(),
		Total:       result.TotalCourses,
		Successful:  result.SuccessfulExports,
		Failed:      result.FailedExports,
		Courses:     make([]formatter.ManifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := formatter.ManifestEntry{Course: r.Course, Status: "success"}
		if !r.Success {
			entry.Status = "failed"
			if r.Error != nil {
				entry.Error = r.Error.Error()
			}
		} else {
			entry.Slots = len(r.Report.Slots)
			_, entry.Remaining = r.Report.Totals()
			entry.Files = []string{r.File}
		}
		m.Courses = append(m.Courses, entry)
	}
	return m
}
