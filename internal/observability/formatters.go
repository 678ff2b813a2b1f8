// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/course-validator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintValidationResult outputs a human-readable summary of a full
// validation run.
func (p *Printer) PrintValidationResult(result *types.ValidationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overall:   %d/100 (%s)\n", result.Overall.OverallScore, strings.ToUpper(result.Overall.Status)))
	sb.WriteString(fmt.Sprintf("Syntax:    %s\n", scoreCell(result.Overall.Breakdown.Syntax)))
	sb.WriteString(fmt.Sprintf("Grounding: %s (%s)\n", scoreCell(result.Overall.Breakdown.Grounding), result.Grounding.GroundingLevel))
	sb.WriteString(fmt.Sprintf("Quality:   %s\n", scoreCell(result.Overall.Breakdown.Quality)))

	p.printBox("VALIDATION RESULT", strings.TrimSuffix(sb.String(), "\n"))

	p.printSyntaxReport(&result.Syntax)
	p.printGroundingReport(&result.Grounding)
	p.printQualityVerdict(&result.Quality)
}

func (p *Printer) printSyntaxReport(report *types.SyntaxReport) {
	var sb strings.Builder

	if !report.HasCode {
		sb.WriteString("No code blocks found (neutral score)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Blocks: %d checked, %d valid, %d invalid\n",
			report.BlocksChecked, report.ValidBlocks, report.InvalidBlocks))
		for i, detail := range report.Details {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Details)-maxItemsToShow))
				break
			}
			marker := "ok"
			if !detail.IsValid {
				marker = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s", marker, detail.Language))
			if detail.Error != "" {
				sb.WriteString(fmt.Sprintf(": %s", detail.Error))
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("SYNTAX", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printGroundingReport(report *types.GroundingReport) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Level: %s (score %d)\n", report.GroundingLevel, report.GroundingScore))
	sb.WriteString(fmt.Sprintf("Citations: %d total, %d internal\n", report.TotalCitations, report.InternalCitations))
	if len(report.MaterialsUsed) > 0 {
		materials := strings.Join(report.MaterialsUsed, ", ")
		if len(materials) > 40 {
			materials = materials[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Materials used: %s\n", materials))
	}

	p.printBox("GROUNDING", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printQualityVerdict(verdict *types.QualityVerdict) {
	var sb strings.Builder

	if !verdict.Success {
		sb.WriteString("Grading unavailable; dimension excluded\n")
		if verdict.Error != "" {
			sb.WriteString(fmt.Sprintf("Reason: %s\n", verdict.Error))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Score: %.1f/10 (grade %s)\n", verdict.OverallScore, verdict.Grade))
		writeList(&sb, "Strengths", verdict.Strengths)
		writeList(&sb, "Weaknesses", verdict.Weaknesses)
		writeList(&sb, "Recommendations", verdict.Recommendations)
	}

	p.printBox("QUALITY", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s:\n", title))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// scoreCell renders a 0-100 score, or a dash for a missing dimension.
func scoreCell(score int) string {
	if score < 0 {
		return "—"
	}
	return fmt.Sprintf("%d/100", score)
}
