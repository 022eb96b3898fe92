package service

import (
	"errors"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notFoundOr translates repository.ErrNotFound into a NotFound error carrying msg and
// marks any other failure as internal.
func notFoundOr(err error, op, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, op, msg)
	}
	return apperr.Wrap(apperr.KindInternal, op, err)
}

func internal(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, op, err)
}

func forbidden(op, msg string) error {
	return apperr.New(apperr.KindForbidden, op, msg)
}

func invalidInput(op, msg string) error {
	return apperr.New(apperr.KindInvalidInput, op, msg)
}

func invalidState(op, msg string) error {
	return apperr.New(apperr.KindInvalidState, op, msg)
}

// ParseObjectID parses a hex id from a request, failing with InvalidInput.
func ParseObjectID(op, what, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, invalidInput(op, "invalid "+what+" id")
	}
	return id, nil
}
