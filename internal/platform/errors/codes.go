// Package errors provides structured error handling for Manageable.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Command routing errors
	CodeCommandUnknown         Code = "COMMAND_UNKNOWN"
	CodeCommandMissingArgument Code = "COMMAND_MISSING_ARGUMENT"
	CodeCommandMissingRole     Code = "COMMAND_MISSING_ROLE"
	CodeCommandGuildOnly       Code = "COMMAND_GUILD_ONLY"

	// Member resolution errors
	CodeMemberNotFound  Code = "MEMBER_NOT_FOUND"
	CodeMemberAmbiguous Code = "MEMBER_AMBIGUOUS"

	// Warning errors
	CodeWarnUnknownAction Code = "WARN_UNKNOWN_ACTION"

	// Role request errors
	CodeRoleUnknownAction Code = "ROLE_UNKNOWN_ACTION"
	CodeRoleNotFound      Code = "ROLE_NOT_FOUND"
	CodeRoleNotAllowed    Code = "ROLE_NOT_ALLOWED"
	CodeRoleAlreadyHeld   Code = "ROLE_ALREADY_HELD"
	CodeRoleNotHeld       Code = "ROLE_NOT_HELD"

	// Airlock errors
	CodeAirlockWrongChannel    Code = "AIRLOCK_WRONG_CHANNEL"
	CodeAirlockRoleMissing     Code = "AIRLOCK_ROLE_MISSING"
	CodeAirlockAlreadyReleased Code = "AIRLOCK_ALREADY_RELEASED"

	// Cookie hunt errors
	CodeCookieNoneAvailable Code = "COOKIE_NONE_AVAILABLE"
	CodeCookieUnknownOption Code = "COOKIE_UNKNOWN_OPTION"

	// Tag errors
	CodeTagNotFound Code = "TAG_NOT_FOUND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
