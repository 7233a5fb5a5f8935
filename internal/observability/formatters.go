// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLimit caps how much extracted preview text is shown per file.
	// Truncation is display-only; the stored preview is untouched.
	previewLimit = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCompanyProfile outputs a human-readable summary of the company profile.
func (p *Printer) PrintCompanyProfile(profile *types.CompanyProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	appendField(&sb, "Name", profile.Name)
	appendField(&sb, "Industry", profile.Industry)
	appendField(&sb, "Headquarters", profile.Headquarters)
	appendField(&sb, "Website", profile.Website)
	appendField(&sb, "Email", profile.Email)
	appendField(&sb, "Phone", profile.Phone)
	appendField(&sb, "Founded", profile.FoundedYear)
	appendField(&sb, "Employees", profile.Employees)
	appendField(&sb, "Revenue", profile.Revenue)
	if profile.Description != "" {
		sb.WriteString("\nDescription:\n")
		sb.WriteString("  " + profile.Description + "\n")
	}

	p.printBox("COMPANY PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTeaser outputs the teaser title, status, and a body excerpt.
func (p *Printer) PrintTeaser(doc types.TeaserDocument) {
	var sb strings.Builder
	appendField(&sb, "ID", doc.ID)
	appendField(&sb, "Title", doc.Title)
	appendField(&sb, "Status", string(doc.Status))
	if doc.Body != "" {
		sb.WriteString("\n")
		sb.WriteString(Truncate(doc.Body, 200))
		sb.WriteString("\n")
	}

	p.printBox("TEASER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUploadResults outputs the server's per-file upload results with
// display-truncated preview text.
func (p *Printer) PrintUploadResults(files []api.UploadedFile) {
	if len(files) == 0 {
		return
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(fmt.Sprintf("• %s (%d bytes, %s)\n", f.Filename, f.Size, f.ContentType))
		if f.PreviewText != "" {
			sb.WriteString("  " + Truncate(f.PreviewText, previewLimit) + "\n")
		}
	}

	p.printBox(fmt.Sprintf("UPLOADED %d FILE(S)", len(files)), strings.TrimSuffix(sb.String(), "\n"))
}

// Truncate shortens s to at most limit characters for display.
func Truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func appendField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("%-13s %s\n", label+":", value))
}
