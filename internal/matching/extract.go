// Package matching scores candidate profiles against a job description.
//
// It extracts skill terms and context tags from free text with plain
// case-insensitive substring matching, scores every candidate with a
// capped point rubric and ranks the roster deterministically.
// Everything here is pure: no I/O, no shared mutable state.
package matching

import (
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// Context tags produced by ExtractContext.
const (
	TagSeniorLeadership = "Senior Leadership Role"
	TagStartup          = "Startup / High-Growth Environment"
	TagRemoteFirst      = "Remote-First Work"
	TagScalability      = "Scalability & Architecture Focus"
	TagProfessional     = "Professional Environment"
)

// skillVocabulary is checked in this order; the order is the output order.
var skillVocabulary = []string{
	"React", "Node.js", "JavaScript", "TypeScript", "Python", "Java", "Go",
	"MongoDB", "PostgreSQL", "MySQL", "DynamoDB", "Redis",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "CI/CD", "Terraform",
	"Vue.js", "Angular", "Express", "Redux", "RESTful APIs", "GraphQL",
	"Microservices", "System Design", "Agile", "Serverless", "Webpack", "Kafka",
}

var fallbackSkills = []string{"Full Stack Development", "Cloud Computing", "Problem Solving"}

// contextTrigger emits Tag when any needle occurs in the text.
type contextTrigger struct {
	Tag string
	Any []string
}

var contextTriggers = []contextTrigger{
	{Tag: TagSeniorLeadership, Any: []string{"senior", "lead", "architect", "principal", "7+ years"}},
	{Tag: TagStartup, Any: []string{"startup", "fast-paced", "high-growth"}},
	{Tag: TagRemoteFirst, Any: []string{"remote", "distributed"}},
	{Tag: TagScalability, Any: []string{"microservices", "scale", "high-availability"}},
}

// SkillVocabulary returns a copy of the known skill terms in priority order.
func SkillVocabulary() []string {
	return append([]string(nil), skillVocabulary...)
}

// ExtractSkills returns the vocabulary terms found in text, in vocabulary
// order. A term matches when its lowercase form is a substring of the
// lowercased text, so "Go" also matches "good". When nothing matches the
// three generic fallback terms are returned.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 8)
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	if len(found) == 0 {
		return append([]string(nil), fallbackSkills...)
	}
	return found
}

// ExtractContext returns the context tags triggered by text in fixed order,
// or only TagProfessional when none fires.
func ExtractContext(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, len(contextTriggers))
	for _, tr := range contextTriggers {
		if containsAny(lower, tr.Any) {
			tags = append(tags, tr.Tag)
		}
	}
	if len(tags) == 0 {
		return []string{TagProfessional}
	}
	return tags
}

// Analyze runs both extractors over the same text.
func Analyze(text string) domain.Extraction {
	return domain.Extraction{
		ExtractedSkills: ExtractSkills(text),
		JobContext:      ExtractContext(text),
	}
}

// containsAny expects haystack to be lowercased already.
func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
