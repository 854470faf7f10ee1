package value

import (
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"quality_evaluator/pkg/errcodes"
)

type EvaluationID int64

func (id EvaluationID) Int64() int64 {
	return int64(id)
}

func (id EvaluationID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseEvaluationID(s string) (EvaluationID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NewInvalidArgumentError(
			"invalid evaluation id: "+s,
			failure.WithCode(errcodes.InvalidEvaluationID),
		)
	}

	return EvaluationID(id), nil
}

type UserID int64

func (id UserID) Int64() int64 {
	return int64(id)
}

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseUserID(s string) (UserID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NewInvalidArgumentError(
			"invalid user id: "+s,
			failure.WithCode(errcodes.InvalidUserID),
		)
	}

	return UserID(id), nil
}
