//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// SubmissionRequest is the body of POST /submissions.
//
// Fields are declared in the order they are validated: required fields first,
// then enums, then dates. Score and QuestionsCount are decoded as floats so that a
// non-integer value is reported as an invalid parameter instead of a decode failure.
type SubmissionRequest struct {
	CompanyID          string           `json:"companyId" validate:"required,uuid"`
	RoleType           RoleType         `json:"roleType" validate:"required,roletype"`
	Platform           Platform         `json:"platform" validate:"required,platform"`
	Status             SubmissionStatus `json:"status" validate:"required,status"`
	AssessmentReceived string           `json:"assessmentReceived,omitempty" validate:"omitempty,isodate"`
	AssessmentTaken    string           `json:"assessmentTaken,omitempty" validate:"omitempty,isodate"`
	ResponseReceived   string           `json:"responseReceived,omitempty" validate:"omitempty,isodate"`
	Score              *float64         `json:"score,omitempty"`
	QuestionsCount     *float64         `json:"questionsCount,omitempty"`
	TestCases          map[string]bool  `json:"testCases,omitempty"`
	Comments           *string          `json:"comments,omitempty"`
}

// OptionalString is a nullable JSON string that remembers whether it was
// present. An explicit null is Set with a nil Value.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for keys present
// in the document, null included.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// ProfileUpdateRequest is the body of PATCH /profiles/me. Absent fields are left
// unchanged and null fields are cleared.
type ProfileUpdateRequest struct {
	Name  OptionalString `json:"name"`
	Image OptionalString `json:"image"`
}

// Empty reports whether the request carries no updatable field.
func (r *ProfileUpdateRequest) Empty() bool {
	return !r.Name.Set && !r.Image.Set
}

// LeadRequest is the body of POST /lead.
type LeadRequest struct {
	Email string `json:"email"`
}
