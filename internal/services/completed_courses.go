package services

import (
	"regexp"
	"strings"

	"coursepick/internal/config"
	"coursepick/internal/models/request_models"
)

// Any rune that is not a letter, mark, digit, underscore or space separates two
// course names in punctuation mode. Fullwidth punctuation (，、；) counts.
var punctuationSplit = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}]+`)

// NormalizeCompletedCourses turns the free-text input into trimmed, non-empty course
// names. In comma mode only ASCII commas separate names, so "高等数学，经济学" stays
// one token; in punctuation mode it becomes two, and so does "高等数学（二）".
func NormalizeCompletedCourses(input string, mode string) []string {
	var parts []string
	if mode == config.SplitModeComma {
		parts = strings.Split(input, ",")
	} else {
		parts = punctuationSplit.Split(input, -1)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Map(fullwidthSpace, p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fullwidthSpace(r rune) rune {
	if r == '　' {
		return ' '
	}
	return r
}

// BuildPayload coerces the form into the recommender's request body. Fields that only
// make sense under another field's value are dropped here rather than in the form, so
// re-ticking a box restores what the student typed before.
func BuildPayload(s request_models.FormState, splitMode string) request_models.RecommendPayload {
	p := request_models.RecommendPayload{
		IsFreshman:        s.IsFreshman,
		CurrentGrade:      s.CurrentGrade,
		CurrentSemester:   s.CurrentSemester,
		CompletedCourses:  []string{},
		StudyAbroad:       s.StudyAbroad,
		Internship:        s.Internship,
		PlanningType:      s.PlanningType,
		PreferredSubjects: append([]string{}, s.PreferredSubjects...),
		UpperboundCredits: s.UpperboundCredits,
	}

	if !s.IsFreshman {
		p.CompletedCourses = NormalizeCompletedCourses(string(s.CompletedCourses), splitMode)
	}
	if s.Internship && s.InternshipSemester != nil {
		v := *s.InternshipSemester
		p.InternshipSemester = &v
	}
	if s.PlanningType == request_models.PlanningBalancedWorkload && s.TargetCreditsPerSemester != nil {
		v := *s.TargetCreditsPerSemester
		p.TargetCreditsPerSemester = &v
	}
	return p
}
