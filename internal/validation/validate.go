package validation

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/assessmentslol/assessments/internal/types"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

// newValidator builds a validator that reports JSON field names and knows the
// domain enums and the YYYY-MM-DD date format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("roletype", func(fl validator.FieldLevel) bool {
		return types.RoleType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return types.Platform(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return types.SubmissionStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	})
	return v
}

// IsValidDate reports whether s is a YYYY-MM-DD string naming a real calendar date.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Submission validates a submission creation request. It returns a
// *MissingFieldsError when a required field is absent, otherwise the first
// *InvalidParameterError in validation order, or nil.
func Submission(req *types.SubmissionRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return err
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return &MissingFieldsError{}
			}
		}
		return &InvalidParameterError{Field: fieldErrs[0].Field()}
	}

	switch req.Platform {
	case types.PlatformCodeSignal:
		if req.Score != nil && !isIntegerInRange(*req.Score, 0, types.MaxCodeSignalScore) {
			return &InvalidParameterError{Field: "score"}
		}
	case types.PlatformHackerRank:
		if req.QuestionsCount != nil && !isIntegerInRange(*req.QuestionsCount, 0, math.MaxInt32) {
			return &InvalidParameterError{Field: "questionsCount"}
		}
	}
	return nil
}

func isIntegerInRange(v float64, lo, hi int) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return false
	}
	return v >= float64(lo) && v <= float64(hi)
}

// RoleType parses an optional roleType filter. An empty value yields "" and no error.
func RoleType(value string) (types.RoleType, error) {
	if value == "" {
		return "", nil
	}
	rt := types.RoleType(value)
	if !rt.Valid() {
		return "", &InvalidParameterError{Field: "roleType"}
	}
	return rt, nil
}

// Platform parses an optional platform filter.
func Platform(value string) (types.Platform, error) {
	if value == "" {
		return "", nil
	}
	p := types.Platform(value)
	if !p.Valid() {
		return "", &InvalidParameterError{Field: "platform"}
	}
	return p, nil
}

// Status parses an optional status filter.
func Status(value string) (types.SubmissionStatus, error) {
	if value == "" {
		return "", nil
	}
	s := types.SubmissionStatus(value)
	if !s.Valid() {
		return "", &InvalidParameterError{Field: "status"}
	}
	return s, nil
}

// Date parses an optional date filter named field.
func Date(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if !IsValidDate(value) {
		return nil, &InvalidParameterError{Field: field}
	}
	t, _ := time.Parse(DateLayout, value)
	return &t, nil
}
