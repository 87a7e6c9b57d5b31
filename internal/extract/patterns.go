// internal/extract/patterns.go
package extract

import (
	"regexp"
)

// statPattern pairs a statistical-looking regex with the category label its
// matches are filed under.
type statPattern struct {
	re       *regexp.Regexp
	category string
}

// statPatterns covers the indicators published by the catalog's sources:
// economic aggregates, demographics, health and education rates, plus
// generic numeric shapes (percentages, grouped thousands, quantity words).
var statPatterns = []statPattern{
	{regexp.MustCompile(`(?i)GDP.{0,40}?(?:growth|rate|size).{0,20}?\d+\.?\d*`), "Economic"},
	{regexp.MustCompile(`(?i)inflation.{0,40}?(?:rate|%).{0,20}?\d+\.?\d*`), "Economic"},
	{regexp.MustCompile(`(?i)unemployment.{0,40}?(?:rate|%).{0,20}?\d+\.?\d*`), "Labor"},
	{regexp.MustCompile(`(?i)population.{0,40}?(?:of|in).{0,20}?\d+[\d,]*(?:\s*million|\s*billion)?`), "Demographic"},
	{regexp.MustCompile(`(?i)census.{0,20}?\d{4}.{0,20}?\d+[\d,]*`), "Demographic"},
	{regexp.MustCompile(`(?i)mortality.{0,40}?(?:rate|ratio).{0,20}?\d+\.?\d*`), "Health"},
	{regexp.MustCompile(`(?i)life.{0,10}?expectancy.{0,20}?\d+\.?\d*`), "Health"},
	{regexp.MustCompile(`(?i)literacy.{0,40}?(?:rate|%).{0,20}?\d+\.?\d*`), "Education"},
	{regexp.MustCompile(`(?i)enrollment.{0,40}?(?:rate|%).{0,20}?\d+\.?\d*`), "Education"},
	{regexp.MustCompile(`\d+\.?\d*\s*%`), "General"},
	{regexp.MustCompile(`\d{1,3}(?:,\d{3})+`), "General"},
	{regexp.MustCompile(`(?i)\d+\.?\d*\s*(?:million|billion|thousand)\b`), "General"},
}

// scanPatterns is the flat statistic scan used for plain text and PDF pages,
// where no DOM context is available.
var scanPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.?\d*\s*%`),
	regexp.MustCompile(`\d{1,3}(?:,\d{3})+`),
	regexp.MustCompile(`(?i)GDP.{0,40}?\d[,\d]*\.?\d*`),
	regexp.MustCompile(`(?i)population.{0,40}?\d[,\d]*\.?\d*`),
	regexp.MustCompile(`(?i)unemployment.{0,40}?\d[,\d]*\.?\d*`),
	regexp.MustCompile(`(?i)inflation.{0,40}?\d[,\d]*\.?\d*`),
	regexp.MustCompile(`(?i)\d+\.?\d*\s*(?:million|billion|thousand)\b`),
	regexp.MustCompile(`(?i)(?:rate|ratio|percentage|proportion).{0,40}?\d+\.?\d*`),
}

// statLineRe decides whether a plain-text line looks statistical.
var statLineRe = regexp.MustCompile(`(?i)\d+\.?\d*\s*%|\d+\s*(?:million|billion|thousand)\b`)

// digitRe reports any digit at all.
var digitRe = regexp.MustCompile(`\d`)

// ScanStatistics runs the flat statistic patterns over text and returns up to
// max unique matches, in pattern-list order then match order.
func ScanStatistics(text string, max int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, re := range scanPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
			if max > 0 && len(out) >= max {
				return out
			}
		}
	}
	return out
}
