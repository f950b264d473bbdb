package service

import (
	"strings"
	"unicode"

	"github.com/MehdiBenameur/skyhire/internal/models"
)

// matchStopWords filters common words that add noise to keyword matching.
var matchStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "work": true, "team": true,
	"role": true, "job": true, "join": true, "about": true, "which": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
}

// extractKeywords tokenizes text into lowercase keywords of three or more
// characters, keeping tech-style tokens like "a320" or "b737" intact.
func extractKeywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !matchStopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// CandidateKeywords builds the keyword set for a profile once, for reuse
// across a batch of job scorings.
func CandidateKeywords(profile *models.UserProfile) map[string]bool {
	var b strings.Builder
	b.WriteString(profile.Headline)
	b.WriteString(" ")
	b.WriteString(profile.Bio)
	for _, skill := range profile.Skills {
		b.WriteString(" ")
		b.WriteString(skill.Name)
	}
	return extractKeywords(b.String())
}

// ScoreJobMatch computes a Jaccard-based keyword overlap score (0 to 100)
// between the candidate's keywords and a job posting.
func ScoreJobMatch(candidateKW map[string]bool, job *models.Job) float64 {
	var b strings.Builder
	b.WriteString(job.Title)
	b.WriteString(" ")
	b.WriteString(job.Category)
	b.WriteString(" ")
	b.WriteString(job.Description)
	for _, skill := range job.RequiredSkills {
		b.WriteString(" ")
		b.WriteString(skill)
	}
	jobKW := extractKeywords(b.String())

	inter := 0
	for kw := range candidateKW {
		if jobKW[kw] {
			inter++
		}
	}

	union := len(candidateKW) + len(jobKW) - inter
	if union == 0 {
		return 0
	}
	raw := float64(inter) / float64(union) * 100
	return float64(int(raw*10+0.5)) / 10 // round to 1 decimal
}
