package request_models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"coursepick/pkg/utils"
)

type PlanningType string

const (
	PlanningMinimalEffort    PlanningType = "Minimal Effort"
	PlanningBalancedWorkload PlanningType = "Balanced Workload"
	PlanningFocusedDepth     PlanningType = "Focused Depth"
	PlanningMaximumIntensity PlanningType = "Maximum Intensity"
)

// PlanningTypes lists the planning strategies in menu order.
var PlanningTypes = []PlanningType{
	PlanningMinimalEffort,
	PlanningBalancedWorkload,
	PlanningFocusedDepth,
	PlanningMaximumIntensity,
}

var planningLabels = map[PlanningType]string{
	PlanningMinimalEffort:    "轻松过关 - 满足最低毕业学分要求即可",
	PlanningBalancedWorkload: "适度均衡 - 保持相对平衡、可管理的学期工作量",
	PlanningFocusedDepth:     "专注深化 - 在特定领域深入学习",
	PlanningMaximumIntensity: "极限挑战 - 最大化学习强度和学分获取",
}

func (p PlanningType) Label() string {
	if l, ok := planningLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p PlanningType) Valid() bool {
	_, ok := planningLabels[p]
	return ok
}

// ParsePlanningType accepts the wire value or its 1-based menu index.
func ParsePlanningType(v string) (PlanningType, bool) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= len(PlanningTypes) {
			return PlanningTypes[n-1], true
		}
		return "", false
	}
	p := PlanningType(v)
	return p, p.Valid()
}

// Subjects is the catalogue of preferred subject tags, in menu order.
var Subjects = []string{
	"量化金融与金融工程",
	"数理研究",
	"投资与资产管理",
	"财务分析",
	"宏观金融与经济政策",
	"金融经济学",
	"组织管理",
	"市场营销",
	"中国经济社会研究",
}

const MaxPreferredSubjects = 3

func IsSubject(tag string) bool {
	for _, s := range Subjects {
		if s == tag {
			return true
		}
	}
	return false
}

// CourseText is the completed-courses input as typed by the student. JSON callers may
// send either a string or an array of course names.
type CourseText string

func (t *CourseText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = CourseText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("completed_courses must be a string or a list of strings: %w", err)
	}
	*t = CourseText(strings.Join(list, ","))
	return nil
}

// FormState is the mutable state behind the recommendation request form.
type FormState struct {
	IsFreshman               bool         `json:"is_freshman"`
	CurrentGrade             int          `json:"current_grade" validate:"min=1,max=4"`
	CurrentSemester          int          `json:"current_semester" validate:"min=1,max=2"`
	CompletedCourses         CourseText   `json:"completed_courses"`
	StudyAbroad              bool         `json:"study_abroad"`
	Internship               bool         `json:"internship"`
	InternshipSemester       *int         `json:"internship_semester" validate:"omitempty,min=1,max=8"`
	PlanningType             PlanningType `json:"planning_type" validate:"planning_type"`
	TargetCreditsPerSemester *int         `json:"target_credits_per_semester" validate:"omitempty,min=9,max=20"`
	PreferredSubjects        []string     `json:"preferred_subjects" validate:"max=3,unique,dive,subject_tag"`
	UpperboundCredits        int          `json:"upperbound_credits" validate:"min=9,max=20"`
}

func DefaultFormState() FormState {
	return FormState{
		CurrentGrade:      1,
		CurrentSemester:   1,
		PlanningType:      PlanningMinimalEffort,
		PreferredSubjects: []string{},
		UpperboundCredits: 15,
	}
}

// Form field names, shared by the HTML form, the JSON API and the CLI.
const (
	FieldIsFreshman         = "is_freshman"
	FieldCurrentGrade       = "current_grade"
	FieldCurrentSemester    = "current_semester"
	FieldCompletedCourses   = "completed_courses"
	FieldStudyAbroad        = "study_abroad"
	FieldInternship         = "internship"
	FieldInternshipSemester = "internship_semester"
	FieldPlanningType       = "planning_type"
	FieldTargetCredits      = "target_credits_per_semester"
	FieldPreferredSubjects  = "preferred_subjects"
	FieldUpperboundCredits  = "upperbound_credits"
)

// CheckboxFields are absent from a browser post when unchecked.
var CheckboxFields = []string{FieldIsFreshman, FieldStudyAbroad, FieldInternship}

// SetField merges a single changed field into the state, coercing the raw widget value.
func (s *FormState) SetField(name, value string) error {
	value = strings.TrimSpace(value)

	switch name {
	case FieldIsFreshman:
		s.IsFreshman = parseCheckbox(value)
	case FieldStudyAbroad:
		s.StudyAbroad = parseCheckbox(value)
	case FieldInternship:
		s.Internship = parseCheckbox(value)
	case FieldCurrentGrade:
		return setInt(&s.CurrentGrade, name, value)
	case FieldCurrentSemester:
		return setInt(&s.CurrentSemester, name, value)
	case FieldUpperboundCredits:
		return setInt(&s.UpperboundCredits, name, value)
	case FieldInternshipSemester:
		return setOptionalInt(&s.InternshipSemester, name, value)
	case FieldTargetCredits:
		return setOptionalInt(&s.TargetCreditsPerSemester, name, value)
	case FieldCompletedCourses:
		s.CompletedCourses = CourseText(value)
	case FieldPlanningType:
		p, ok := ParsePlanningType(value)
		if !ok {
			return fmt.Errorf("%w: %s=%q", utils.ErrInvalidFieldValue, name, value)
		}
		s.PlanningType = p
	default:
		return fmt.Errorf("%w: %q", utils.ErrUnknownField, name)
	}
	return nil
}

// ToggleSubject removes tag when selected, otherwise adds it unless the cap is reached.
// It reports whether the selection changed; adding past the cap is a no-op.
func (s *FormState) ToggleSubject(tag string) (bool, error) {
	tag = strings.TrimSpace(tag)
	if !IsSubject(tag) {
		return false, fmt.Errorf("%w: %q", utils.ErrUnknownSubject, tag)
	}

	for i, t := range s.PreferredSubjects {
		if t == tag {
			s.PreferredSubjects = append(s.PreferredSubjects[:i:i], s.PreferredSubjects[i+1:]...)
			return true, nil
		}
	}
	if len(s.PreferredSubjects) >= MaxPreferredSubjects {
		return false, nil
	}
	s.PreferredSubjects = append(s.PreferredSubjects, tag)
	return true, nil
}

// HasSubject is used by the form template to tick the boxes.
func (s FormState) HasSubject(tag string) bool {
	for _, t := range s.PreferredSubjects {
		if t == tag {
			return true
		}
	}
	return false
}

// SubjectsFull reports whether further subjects would be rejected.
func (s FormState) SubjectsFull() bool {
	return len(s.PreferredSubjects) >= MaxPreferredSubjects
}

func (s FormState) NeedsTargetCredits() bool {
	return s.PlanningType == PlanningBalancedWorkload
}

// Clone returns a copy that shares no slices or pointers with s.
func (s FormState) Clone() FormState {
	out := s
	out.PreferredSubjects = append([]string{}, s.PreferredSubjects...)
	if s.InternshipSemester != nil {
		v := *s.InternshipSemester
		out.InternshipSemester = &v
	}
	if s.TargetCreditsPerSemester != nil {
		v := *s.TargetCreditsPerSemester
		out.TargetCreditsPerSemester = &v
	}
	return out
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes", "y", "是":
		return true
	default:
		return false
	}
}

func setInt(dst *int, name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", utils.ErrInvalidFieldValue, name, value)
	}
	*dst = n
	return nil
}

func setOptionalInt(dst **int, name, value string) error {
	if value == "" {
		*dst = nil
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", utils.ErrInvalidFieldValue, name, value)
	}
	*dst = &n
	return nil
}
