package apperrors

type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeDuplicate       Code = "DUPLICATE"
	CodeForbidden       Code = "FORBIDDEN"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeUpstreamFailure Code = "UPSTREAM_FAILURE"
	CodeInternal        Code = "INTERNAL"
)
