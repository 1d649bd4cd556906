// Package match scores how well two user profiles complement each other.
//
// Scoring is pure: it reads two domain.User values and never touches the
// store. Callers obtain candidates through the store indexes, score each one
// with Score and order the results with Rank.
package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/collabhub/network/internal/core/domain"
)

const (
	goalWeight          = 30
	valueWeight         = 20
	complementaryWeight = 15
	sharedSkillWeight   = 10

	// MaxComplementary bounds both the complementary skills listed in a
	// score and the number of them that carry weight.
	MaxComplementary = 5
	MaxScore         = 100
)

// Score computes the compatibility of candidate with subject.
//
// The total is symmetric: Score(a, b).Score == Score(b, a).Score. The
// ComplementarySkills list is not, since it lists the subject's unique
// skills before the candidate's.
func Score(subject, candidate domain.User) domain.MatchScore {
	var (
		raw     int
		reasons []string
	)

	sharedGoals := intersect(subject.Goals, candidate.Goals)
	raw += goalWeight * len(sharedGoals)
	if n := len(sharedGoals); n > 0 {
		reasons = append(reasons, countReason(n, "goal"))
	}

	sharedValues := intersect(subject.Values, candidate.Values)
	raw += valueWeight * len(sharedValues)
	if n := len(sharedValues); n > 0 {
		reasons = append(reasons, countReason(n, "value"))
	}

	subjectOnly := difference(subject.Skills, candidate.Skills)
	candidateOnly := difference(candidate.Skills, subject.Skills)
	complementary := append(subjectOnly, candidateOnly...)
	raw += complementaryWeight * min(len(complementary), MaxComplementary)
	if len(complementary) > 0 {
		reasons = append(reasons, "Complementary skills")
	}

	sharedSkills := intersect(subject.Skills, candidate.Skills)
	raw += sharedSkillWeight * len(sharedSkills)
	if n := len(sharedSkills); n > 0 {
		reasons = append(reasons, countReason(n, "skill"))
	}

	if len(complementary) > MaxComplementary {
		complementary = complementary[:MaxComplementary]
	}

	return domain.MatchScore{
		CandidateUserID:     candidate.ID,
		Score:               clamp(raw, 0, MaxScore),
		MatchReasons:        nonNil(reasons),
		SharedGoals:         nonNil(sharedGoals),
		ComplementarySkills: nonNil(complementary),
	}
}

// Rank orders scores by score descending. Equal scores are ordered by
// candidate id ascending so the ranking is deterministic.
func Rank(scores []domain.MatchScore) {
	slices.SortStableFunc(scores, func(a, b domain.MatchScore) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.CandidateUserID, b.CandidateUserID)
	})
}

// intersect returns the items of a also present in b, in a's order, without
// repeats.
func intersect(a, b []string) []string {
	var out []string
	for _, item := range a {
		if slices.Contains(b, item) && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

// difference returns the items of a absent from b, in a's order, without
// repeats.
func difference(a, b []string) []string {
	var out []string
	for _, item := range a {
		if !slices.Contains(b, item) && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

func countReason(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 shared %s", noun)
	}
	return fmt.Sprintf("%d shared %ss", n, noun)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
