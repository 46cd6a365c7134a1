// Package validation checks inbound query parameters and request bodies before any store call.
package validation

import "fmt"

// parameterMessages maps a request field to the message shown to API clients.
var parameterMessages = map[string]string{
	"companyId":          "Invalid company ID",
	"roleType":           "Invalid role type",
	"platform":           "Invalid platform",
	"status":             "Invalid status",
	"assessmentReceived": "Invalid date format",
	"assessmentTaken":    "Invalid date format",
	"responseReceived":   "Invalid date format",
	"startDate":          "Invalid start date format",
	"endDate":            "Invalid end date format",
	"score":              "Invalid CodeSignal score",
	"questionsCount":     "Invalid questions count",
	"testCases":          "Invalid test cases",
	"comments":           "Invalid comments",
	"timeframe":          "Invalid timeframe",
}

// InvalidParameterError reports a field whose value is malformed or out of range.
type InvalidParameterError struct {
	Field string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s", e.Field)
}

// Message returns the client-facing description of the error.
func (e *InvalidParameterError) Message() string {
	if msg, ok := parameterMessages[e.Field]; ok {
		return msg
	}
	return "Invalid " + e.Field
}

// MissingFieldsError reports that one or more required fields are absent.
type MissingFieldsError struct{}

func (e *MissingFieldsError) Error() string {
	return "missing required fields"
}

// Message returns the client-facing description of the error.
func (e *MissingFieldsError) Message() string {
	return "Missing required fields"
}
