// Package grounding scores how well generated course material is
// anchored to its known source materials. All functions are pure text
// analysis over the content and the caller-supplied material list; at
// tens of materials a substring match beats any index structure.
package grounding

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/course-validator/internal/types"
)

// Grounding level thresholds on the 0-100 score.
const (
	highThreshold   = 70
	mediumThreshold = 40
)

// Score weights: internal-match ratio dominates, citation density
// rewards well-referenced text. wordsPerCitation is the density target
// at which the density factor saturates. External-only citations earn
// a quarter of the density credit: they show sourcing discipline but
// not grounding in the supplied materials.
const (
	ratioWeight           = 0.6
	densityWeight         = 0.4
	wordsPerCitation      = 150
	externalDensityCredit = 0.25
)

var citationPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

// Score scans content for citation markers, classifies each against the
// known materials and computes the grounding report. Zero citations is
// a valid outcome (score 0, level "none"), not an error.
func Score(content string, materials []types.MaterialSource) *types.GroundingReport {
	prose := stripCodeBlocks(content)
	citations := ExtractCitations(prose)

	report := &types.GroundingReport{
		GroundingLevel: types.GroundingNone,
	}

	seen := make(map[string]bool)
	for _, raw := range citations {
		citation := MatchCitation(raw, materials)
		report.Citations = append(report.Citations, citation)
		report.TotalCitations++

		if citation.MatchedMaterialID != "" {
			report.InternalCitations++
			if !seen[citation.MatchedMaterialID] {
				seen[citation.MatchedMaterialID] = true
				report.MaterialsUsed = append(report.MaterialsUsed, citation.MatchedMaterialID)
			}
		}
	}

	if report.TotalCitations == 0 {
		return report
	}

	ratio := float64(report.InternalCitations) / float64(report.TotalCitations)
	report.GroundingScore = computeScore(ratio, report.TotalCitations, wordCount(prose))
	report.GroundingLevel = levelForScore(report.GroundingScore)
	return report
}

// ExtractCitations returns the inner text of every bracketed citation
// marker, in order of appearance. Markers that carry no citation-like
// text (purely numeric or punctuation, e.g. array literals or task
// checkboxes) are skipped. Callers should strip fenced code first so
// index expressions never count.
func ExtractCitations(prose string) []string {
	var citations []string
	for _, match := range citationPattern.FindAllStringSubmatch(prose, -1) {
		inner := strings.TrimSpace(match[1])
		if inner == "" || !hasCitationText(inner) {
			continue
		}
		citations = append(citations, inner)
	}
	return citations
}

// MatchCitation classifies one citation against the known materials.
// A marker prefixed "external:" is explicitly external; otherwise the
// marker text is fuzzy-matched against material titles, categories and
// file names.
func MatchCitation(raw string, materials []types.MaterialSource) types.Citation {
	citation := types.Citation{RawText: raw}

	normalized := normalize(raw)
	if strings.HasPrefix(normalized, "external:") {
		citation.External = true
		return citation
	}
	// Reference prefixes carry no matching signal
	for _, prefix := range []string{"source:", "ref:", "see:", "from:"} {
		normalized = strings.TrimSpace(strings.TrimPrefix(normalized, prefix))
	}

	for _, material := range materials {
		if matchesMaterial(normalized, material) {
			citation.MatchedMaterialID = material.ID
			return citation
		}
	}

	citation.External = true
	return citation
}

// matchesMaterial reports whether the normalized citation text refers
// to the material by title, category or file name. Containment is
// checked both ways so "[BST Lecture Notes]" matches the material
// titled "Lecture Notes" and vice versa.
func matchesMaterial(normalized string, material types.MaterialSource) bool {
	candidates := []string{
		normalize(material.Title),
		normalize(material.Category),
		normalize(baseName(material.FileName)),
	}
	for _, candidate := range candidates {
		if candidate == "" || len(candidate) < 3 {
			continue
		}
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			return true
		}
	}
	return false
}

// computeScore blends the internal-match ratio with citation density,
// scaled to 0-100. Monotonic in both inputs: densely cited, fully
// internal text reaches 100; sparse citations cap below the high
// threshold even when every one is internal.
func computeScore(internalRatio float64, totalCitations, words int) int {
	densityFactor := 1.0
	if words > wordsPerCitation {
		densityFactor = float64(totalCitations) * wordsPerCitation / float64(words)
		if densityFactor > 1.0 {
			densityFactor = 1.0
		}
	}
	densityCredit := externalDensityCredit + (1-externalDensityCredit)*internalRatio

	score := int(math.Round(100 * (ratioWeight*internalRatio + densityWeight*densityFactor*densityCredit)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func levelForScore(score int) string {
	switch {
	case score >= highThreshold:
		return types.GroundingHigh
	case score >= mediumThreshold:
		return types.GroundingMedium
	case score > 0:
		return types.GroundingLow
	default:
		return types.GroundingNone
	}
}

// hasCitationText reports whether the marker text contains at least two
// letters, filtering out numeric references and checkbox markers.
func hasCitationText(inner string) bool {
	letters := 0
	for _, r := range inner {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			letters++
			if letters >= 2 {
				return true
			}
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// baseName strips the extension from a file name, so "week3_bst.md"
// can match a citation of "week3_bst".
func baseName(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}

// stripCodeBlocks removes fenced code blocks so bracket-heavy code is
// never mistaken for citations.
func stripCodeBlocks(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result.WriteString(line)
			result.WriteString("\n")
		}
	}

	return result.String()
}

func wordCount(prose string) int {
	return len(strings.Fields(prose))
}
