package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"
	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	EmailAlreadyInUse   failure.ErrorCode = "EmailAlreadyInUse"

	InvalidLanguage       failure.ErrorCode = "InvalidLanguage"
	InvalidClassification failure.ErrorCode = "InvalidClassification"
	InvalidEvaluationID   failure.ErrorCode = "InvalidEvaluationID"
	InvalidUserID         failure.ErrorCode = "InvalidUserID"
	InvalidFilter         failure.ErrorCode = "InvalidFilter"
	InvalidPaging         failure.ErrorCode = "InvalidPaging"
	InvalidPasswordFormat failure.ErrorCode = "InvalidPasswordFormat"

	EvaluationNotFound failure.ErrorCode = "EvaluationNotFound"
	UserNotFound       failure.ErrorCode = "UserNotFound"

	FilterDatesOutOfOrder  failure.ErrorCode = "FilterDatesOutOfOrder"
	FilterScoresOutOfOrder failure.ErrorCode = "FilterScoresOutOfOrder"
	NothingToExport        failure.ErrorCode = "NothingToExport"
)
