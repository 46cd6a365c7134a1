// Package types provides type definitions shared by validation, aggregation and the API layer.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RoleType classifies the kind of position a submission was made for.
type RoleType string

// Role types
const (
	RoleTypeInternship RoleType = "INTERNSHIP"
	RoleTypeNewGrad    RoleType = "NEW_GRAD"
	RoleTypeFullTime   RoleType = "FULL_TIME"
)

// Platform is the assessment vendor. Each platform has its own scoring semantics.
type Platform string

// Platforms
const (
	PlatformCodeSignal Platform = "CODESIGNAL"
	PlatformHackerRank Platform = "HACKERRANK"
)

// SubmissionStatus is the outcome of an assessment as reported by the candidate.
type SubmissionStatus string

// Submission statuses
const (
	StatusPending          SubmissionStatus = "PENDING"
	StatusRejected         SubmissionStatus = "REJECTED"
	StatusMovedForward     SubmissionStatus = "MOVED_FORWARD"
	StatusAwaitingResponse SubmissionStatus = "AWAITING_RESPONSE"
)

// MaxCodeSignalScore is the highest score CodeSignal reports.
const MaxCodeSignalScore = 850

// AllRoleTypes returns every role type in declaration order.
func AllRoleTypes() []RoleType {
	return []RoleType{RoleTypeInternship, RoleTypeNewGrad, RoleTypeFullTime}
}

// AllPlatforms returns every platform in declaration order.
func AllPlatforms() []Platform {
	return []Platform{PlatformCodeSignal, PlatformHackerRank}
}

// AllStatuses returns every submission status in declaration order.
func AllStatuses() []SubmissionStatus {
	return []SubmissionStatus{StatusPending, StatusRejected, StatusMovedForward, StatusAwaitingResponse}
}

// Valid reports whether r is one of the known role types.
func (r RoleType) Valid() bool {
	switch r {
	case RoleTypeInternship, RoleTypeNewGrad, RoleTypeFullTime:
		return true
	}
	return false
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformCodeSignal, PlatformHackerRank:
		return true
	}
	return false
}

// Valid reports whether s is one of the known submission statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRejected, StatusMovedForward, StatusAwaitingResponse:
		return true
	}
	return false
}
