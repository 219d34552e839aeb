package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP layer can map it to a status code and
// a client can tell "fix the request" from "retry later".
type Kind int

const (
	KindValidation Kind = iota + 1
	KindInsufficientPoints
	KindLockTimeout
	KindAlreadySubmitted
	KindUnauthorized
	KindForbidden
	KindSurveyWindow
	KindNotFound
	KindInvalidQuestionType
	KindInternal
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// CodeOf returns the stable error code, or "internal_error" for untyped errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "internal_error"
}

// HTTPStatus maps an error kind to its response status. Untyped errors are
// treated as internal.
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation, KindInsufficientPoints, KindInvalidQuestionType:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadySubmitted, KindSurveyWindow:
		return http.StatusConflict
	case KindLockTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Typed errors shared across services. Codes are stable and snake_case so
// clients can branch on them.
var (
	ErrSurveyNotFound       = New(KindNotFound, "survey_not_found", "survey not found")
	ErrQuestionBankNotFound = New(KindNotFound, "question_bank_not_found", "question bank not found")
	ErrUserNotFound         = New(KindNotFound, "user_not_found", "user not found")

	ErrInsufficientPoints = New(KindInsufficientPoints, "point_not_enough", "not enough points")
	ErrLockTimeout        = New(KindLockTimeout, "lock_timeout", "could not acquire lock, try again later")

	ErrInvalidQuestionType = New(KindInvalidQuestionType, "invalid_question_type", "invalid question type")

	ErrStartedBeforeCurrent = New(KindValidation, "started_date_before_current_date", "survey start date is in the past")
	ErrStartedAfterEnded    = New(KindValidation, "started_date_after_ended_date", "survey start date is after its end date")
	ErrRecentSurveyCreation = New(KindValidation, "survey_created_recently", "another survey was created less than 30 seconds ago")

	ErrSurveyNotStarted     = New(KindSurveyWindow, "survey_not_started", "survey has not started yet")
	ErrSurveyAlreadyEnded   = New(KindSurveyWindow, "survey_already_ended", "survey has already ended")
	ErrSurveyAlreadyStarted = New(KindSurveyWindow, "survey_already_started", "survey has already started")

	ErrAnswerAlreadySubmitted  = New(KindAlreadySubmitted, "answer_already_submitted", "answers were already submitted for this survey")
	ErrAuthorCannotAnswer      = New(KindForbidden, "author_cannot_answer", "the survey author cannot answer their own survey")
	ErrAuthorNotMatching       = New(KindForbidden, "author_not_matching", "only the survey author may perform this action")
	ErrCertificationNotHeld    = New(KindUnauthorized, "certification_not_completed", "required certifications are not completed")
	ErrRequiredAnswerMissing   = New(KindValidation, "required_question_not_answered", "a required question was not answered")
	ErrNoAnswerProvided        = New(KindValidation, "answer_at_least_one_question", "at least one question must be answered")
	ErrNotSurveyQuestion       = New(KindValidation, "not_survey_question", "question does not belong to this survey")
	ErrInvalidCredentials      = New(KindUnauthorized, "invalid_credentials", "invalid email or password")
	ErrInvalidToken            = New(KindUnauthorized, "invalid_token", "invalid or expired token")
	ErrInvalidCertificationSet = New(KindValidation, "invalid_certification_type", "invalid certification type")
	ErrEmailAlreadyExists      = New(KindValidation, "user_email_already_exists", "email is already registered")
	ErrInvalidChoiceOption     = New(KindValidation, "invalid_choice_option", "choice does not match a question option")
)
