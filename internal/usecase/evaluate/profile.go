package evaluate

import (
	"regexp"
	"strings"
)

var (
	urlRe   = regexp.MustCompile(`https?://[^\s)]+`)
	noiseRe = regexp.MustCompile(`\s+\n`)
)

// profileURLs returns the first LinkedIn and GitHub links in text.
func profileURLs(text string) (linkedin, github string) {
	for _, u := range urlRe.FindAllString(text, -1) {
		lower := strings.ToLower(u)
		if linkedin == "" && strings.Contains(lower, "linkedin.com") {
			linkedin = u
		}
		if github == "" && strings.Contains(lower, "github.com") {
			github = u
		}
	}
	return linkedin, github
}

// stripNoise collapses trailing whitespace before line breaks.
func stripNoise(text string) string {
	return strings.TrimSpace(noiseRe.ReplaceAllString(text, "\n"))
}
