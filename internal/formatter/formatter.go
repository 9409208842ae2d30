// package formatter renders the export view of a user's job records (CSV, JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Filename prefixes for exports and pre-clear backups.
const (
	ExportPrefix = "jobs"
	BackupPrefix = "jobs-backup"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatText}

// csvHeaders are the spreadsheet columns, in order.
var csvHeaders = []string{
	"Sr. No",
	"Application Date",
	"Country Name",
	"Company Name",
	"Recruiter Email & Phone",
	"Job Title",
	"Job Portal/Company Website/Link",
	"Status",
	"Response Remarks",
}

// ParseFormat resolves a format name. An empty name selects CSV; "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidFlag, s)
}

// Ext returns the file extension for f without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ExportToCSV renders records as a spreadsheet with a 1-based serial number column.
func ExportToCSV(records []*models.JobRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			r.ApplicationDate,
			r.CountryName,
			r.CompanyName,
			r.Recruiter,
			r.JobTitle,
			r.JobLink,
			r.Status,
			r.ResponseRemarks,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders records as an indented JSON array. An empty set renders as [].
func ExportToJSON(records []*models.JobRecord) ([]byte, error) {
	if records == nil {
		records = []*models.JobRecord{}
	}
	return shared.MarshalJSON(records, true)
}

// ExportToMarkdown renders records as a Markdown table titled with the username.
func ExportToMarkdown(user string, records []*models.JobRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Job applications: %s\n\n", user))
	buf.WriteString(fmt.Sprintf("**Applications**: %d\n\n", len(records)))

	if len(records) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Date | Company | Title | Country | Status | Link |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for i, r := range records {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			mdCell(r.ApplicationDate),
			mdCell(r.CompanyName),
			mdCell(r.JobTitle),
			mdCell(r.CountryName),
			mdCell(r.Status),
			mdCell(r.JobLink),
		))
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per record.
func ExportToText(user string, records []*models.JobRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", user))
	buf.WriteString(fmt.Sprintf("Applications: %d\n\n", len(records)))

	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s (%s)\n", i+1, r.ApplicationDate, r.CompanyName, r.JobTitle, r.Status))
		if r.JobLink != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", r.JobLink))
		}
	}

	return buf.Bytes(), nil
}

// Render renders records in format f.
func Render(f Format, user string, records []*models.JobRecord) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatJSON:
		return ExportToJSON(records)
	case FormatMarkdown:
		return ExportToMarkdown(user, records)
	case FormatText:
		return ExportToText(user, records)
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidFlag, f)
}

// ExportFilename builds "<prefix>-<user>-<YYYY-MM-DD>.<ext>".
//
// Characters of user that are unsafe in file names are replaced with underscores.
func ExportFilename(prefix, user string, date time.Time, f Format) string {
	return fmt.Sprintf("%s-%s-%s.%s", prefix, SanitizeFilename(user), date.Format(shared.DateLayout), f.Ext())
}

// SanitizeFilename keeps letters, digits, dots, dashes and underscores.
func SanitizeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" || strings.Trim(s, ".") == "" {
		return "_"
	}
	return s
}

// WriteExport renders records and writes them to dir/name, creating dir when missing.
//
// The file is written to a temporary name first and renamed, so a failed write never leaves a
// truncated export behind. Returns the path written.
func WriteExport(dir, name string, f Format, user string, records []*models.JobRecord) (string, error) {
	data, err := Render(f, user, records)
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", f, err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
