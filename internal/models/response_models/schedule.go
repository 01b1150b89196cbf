package response_models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Text decodes a display field that the recommender may send as a string, number, null
// or a list of those. Lists are joined with "; ".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, raw := range items {
			var item Text
			if err := item.UnmarshalJSON(raw); err != nil {
				return err
			}
			if item != "" {
				parts = append(parts, string(item))
			}
		}
		*t = Text(strings.Join(parts, "; "))
	case '{':
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprint(m[k]))
		}
		*t = Text(strings.Join(parts, " "))
	default:
		*t = Text(b)
	}
	return nil
}

type Course struct {
	Name            string   `json:"name"`
	Credits         float64  `json:"credits"`
	Time            Text     `json:"time"`
	Teacher         Text     `json:"teacher"`
	Location        Text     `json:"location"`
	Note            Text     `json:"note"`
	SubjectCategory []string `json:"subject_category,omitempty"`
}

// UnmarshalJSON also takes a bare course name, the shape a completed schedule uses.
func (c *Course) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*c = Course{Name: name}
		return nil
	}

	type plain Course
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Course(p)
	return nil
}

// CreditsLabel formats credits without a trailing ".0".
func (c Course) CreditsLabel() string {
	return FormatCredits(c.Credits)
}

func FormatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SemesterSchedule accepts both reply shapes for a semester: a bare list of courses or
// an object with total_credits and courses.
type SemesterSchedule struct {
	TotalCredits *float64 `json:"total_credits,omitempty"`
	Courses      []Course `json:"courses"`
}

func (s *SemesterSchedule) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = SemesterSchedule{}
		return nil
	}

	if b[0] == '[' {
		var courses []Course
		if err := json.Unmarshal(b, &courses); err != nil {
			return fmt.Errorf("semester course list: %w", err)
		}
		*s = SemesterSchedule{Courses: courses}
		return nil
	}

	type plain SemesterSchedule
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("semester schedule: %w", err)
	}
	*s = SemesterSchedule(p)
	return nil
}

// RecommendResponse is the recommender's reply: either Error, or Schedule + Message.
type RecommendResponse struct {
	Error        string                      `json:"error,omitempty"`
	Schedule     map[string]SemesterSchedule `json:"schedule,omitempty"`
	Message      string                      `json:"message,omitempty"`
	TotalCredits *float64                    `json:"total_credits,omitempty"`
}

type Semester struct {
	Label        string   `json:"label"`
	TotalCredits *float64 `json:"total_credits,omitempty"`
	Courses      []Course `json:"courses"`
}

// Credits returns the reported total, or the sum of course credits when absent.
func (s Semester) Credits() float64 {
	if s.TotalCredits != nil {
		return *s.TotalCredits
	}
	var sum float64
	for _, c := range s.Courses {
		sum += c.Credits
	}
	return sum
}

// HasCategories reports whether any course carries subject categories.
func (s Semester) HasCategories() bool {
	for _, c := range s.Courses {
		if len(c.SubjectCategory) > 0 {
			return true
		}
	}
	return false
}

// Outcome is what the form shows after a submission: a single error string, or the
// schedule with its message.
type Outcome struct {
	Error        string     `json:"error,omitempty"`
	Message      string     `json:"message,omitempty"`
	TotalCredits *float64   `json:"total_credits,omitempty"`
	Semesters    []Semester `json:"semesters,omitempty"`
}

func (o Outcome) Failed() bool { return o.Error != "" }

func (o Outcome) HasSchedule() bool { return !o.Failed() && len(o.Semesters) > 0 }

// NewOutcome flattens a reply into display order. An error field wins over any schedule.
func NewOutcome(resp RecommendResponse) Outcome {
	if resp.Error != "" {
		return Outcome{Error: resp.Error}
	}

	labels := make([]string, 0, len(resp.Schedule))
	for k := range resp.Schedule {
		labels = append(labels, k)
	}
	SortSemesterLabels(labels)

	out := Outcome{
		Message:      resp.Message,
		TotalCredits: resp.TotalCredits,
		Semesters:    make([]Semester, 0, len(labels)),
	}
	for _, l := range labels {
		ss := resp.Schedule[l]
		out.Semesters = append(out.Semesters, Semester{
			Label:        l,
			TotalCredits: ss.TotalCredits,
			Courses:      ss.Courses,
		})
	}
	return out
}

// SortSemesterLabels puts integer labels first in numeric order, then the rest
// lexicographically.
func SortSemesterLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		a, aErr := strconv.Atoi(labels[i])
		b, bErr := strconv.Atoi(labels[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return labels[i] < labels[j]
		}
	})
}
