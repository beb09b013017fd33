// package formatter provides functions to export slot availability to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/shared"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// AvailabilityReport is the slot list of one course at the time it was fetched.
type AvailabilityReport struct {
	Course    models.Course `json:"course"`
	Slots     []models.Slot `json:"slots"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Totals returns the number of places offered and still free across all slots.
func (r *AvailabilityReport) Totals() (capacity, remaining int) {
	for _, s := range r.Slots {
		capacity += s.Capacity
		remaining += s.Remaining
	}
	return capacity, remaining
}

// ExportToCSV converts a report to CSV with columns: Course, Date, Time, Capacity, Remaining, Full
func ExportToCSV(r *AvailabilityReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Course", "Date", "Time", "Capacity", "Remaining", "Full"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, slot := range r.Slots {
		record := []string{
			string(r.Course),
			slot.Date,
			slot.Time,
			strconv.Itoa(slot.Capacity),
			strconv.Itoa(slot.Remaining),
			strconv.FormatBool(slot.Full()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a report to a Markdown table.
func ExportToMarkdown(r *AvailabilityReport) ([]byte, error) {
	var buf bytes.Buffer
	capacity, remaining := r.Totals()

	buf.WriteString(fmt.Sprintf("# %s\n\n", r.Course))
	buf.WriteString(fmt.Sprintf("**Fetched**: %s\n", r.FetchedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Slots**: %d\n", len(r.Slots)))
	buf.WriteString(fmt.Sprintf("**Free places**: %d of %d\n\n", remaining, capacity))

	if len(r.Slots) == 0 {
		buf.WriteString("_No slots offered._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Date | Time | Remaining | Capacity |\n")
	buf.WriteString("|------|------|-----------|----------|\n")
	for _, slot := range r.Slots {
		left := strconv.Itoa(slot.Remaining)
		if slot.Full() {
			left = "full"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n", slot.Date, slot.Time, left, slot.Capacity))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a report to plain text format
func ExportToText(r *AvailabilityReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Course: %s\n", r.Course))
	buf.WriteString(fmt.Sprintf("Slots: %d\n\n", len(r.Slots)))

	for i, slot := range r.Slots {
		buf.WriteString(fmt.Sprintf("%d. %s %s  %s\n", i+1, slot.Date, slot.Time, SlotAvailability(slot)))
	}

	return buf.Bytes(), nil
}

// SlotAvailability renders remaining/capacity, or "full".
func SlotAvailability(s models.Slot) string {
	if s.Full() {
		return fmt.Sprintf("full (%d)", s.Capacity)
	}
	return fmt.Sprintf("%d/%d free", s.Remaining, s.Capacity)
}

// WriteJSONExport writes the report as indented JSON to path.
//
// Defaults to {slug}.json.
func WriteJSONExport(r *AvailabilityReport, path string) (string, error) {
	if path == "" {
		path = shared.Slugify(string(r.Course)) + ".json"
	}

	data, err := shared.MarshalJSON(r, true)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}
	return path, nil
}

// WriteCSVExport writes {base}_slots.csv.
//
// Defaults to the slugified course as the base filename.
func WriteCSVExport(r *AvailabilityReport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = shared.Slugify(string(r.Course))
	}

	csvData, err := ExportToCSV(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	slotsFile := baseFilepath + "_slots.csv"
	if err := os.WriteFile(slotsFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return slotsFile, nil
}

// WriteMarkdownExport writes {dir}/README.md, creating the directory.
//
// Directory name defaults to the slugified course.
func WriteMarkdownExport(r *AvailabilityReport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = shared.Slugify(string(r.Course))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport writes the report as plain text.
//
// Defaults to {slug}_slots.txt as the filename.
func WriteTextExport(r *AvailabilityReport, path string) (string, error) {
	if path == "" {
		path = shared.Slugify(string(r.Course)) + "_slots.txt"
	}

	textData, err := ExportToText(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteReport writes r into dir in the given format and returns the created file.
func WriteReport(r *AvailabilityReport, format, dir string) (string, error) {
	base := filepath.Join(dir, shared.Slugify(string(r.Course)))

	switch format {
	case FormatCSV:
		return WriteCSVExport(r, base)
	case FormatMarkdown:
		return WriteMarkdownExport(r, base)
	case FormatText:
		return WriteTextExport(r, base+"_slots.txt")
	case FormatJSON, "":
		return WriteJSONExport(r, base+".json")
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ManifestEntry summarizes the export of one course.
type ManifestEntry struct {
	Course    models.Course `json:"course"`
	Status    string        `json:"status"`
	Slots     int           `json:"slots"`
	Remaining int           `json:"remaining"`
	Files     []string      `json:"files,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Manifest summarizes an availability export.
type Manifest struct {
	Endpoint    string          `json:"endpoint"`
	Format      string          `json:"format"`
	GeneratedAt time.Time       `json:"generated_at"`
	Total       int             `json:"total_courses"`
	Successful  int             `json:"successful_exports"`
	Failed      int             `json:"failed_exports"`
	Courses     []ManifestEntry `json:"courses"`
}

// WriteManifest writes the manifest as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
