package request_models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"coursepick/pkg/utils"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the form's custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("planning_type", func(fl validator.FieldLevel) bool {
			return PlanningType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("subject_tag", func(fl validator.FieldLevel) bool {
			return IsSubject(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks the widget-level constraints of the fields that would be sent. The
// internship semester counts only with internship set and the target credits only
// under Balanced Workload. The returned error wraps utils.ErrInvalidForm and names the
// offending fields.
func (s FormState) Validate() error {
	if !s.Internship {
		s.InternshipSemester = nil
	}
	if s.PlanningType != PlanningBalancedWorkload {
		s.TargetCreditsPerSemester = nil
	}
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", utils.ErrInvalidForm, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", utils.ErrInvalidForm, strings.Join(fields, ", "))
}
