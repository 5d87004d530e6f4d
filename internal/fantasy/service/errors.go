package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"fantasy/internal/fantasy/model"
	pkgerrors "fantasy/pkg/errors"
	pkgrepo "fantasy/pkg/repository"
)

// entityCodes are the error codes one entity maps repository failures to.
type entityCodes struct {
	notFound   pkgerrors.ErrorCode
	duplicate  pkgerrors.ErrorCode
	referenced pkgerrors.ErrorCode
	foreignKey pkgerrors.ErrorCode
}

var (
	countryCodes = entityCodes{
		notFound:   pkgerrors.CountryNotFound,
		duplicate:  pkgerrors.CountryAlreadyExists,
		referenced: pkgerrors.CountryInUse,
		foreignKey: pkgerrors.DatabaseError,
	}
	teamCodes = entityCodes{
		notFound:   pkgerrors.TeamNotFound,
		duplicate:  pkgerrors.TeamAlreadyExists,
		referenced: pkgerrors.TeamInUse,
		foreignKey: pkgerrors.TeamCountryNotFound,
	}
)

// mapRepoError translates repository sentinels into coded errors.
// Anything unrecognised keeps the raw message under DatabaseError.
func mapRepoError(err error, codes entityCodes) error {
	if err == nil {
		return nil
	}
	var coded *pkgerrors.Error
	if errors.As(err, &coded) {
		return coded
	}
	switch {
	case errors.Is(err, pkgrepo.ErrNotFound):
		return pkgerrors.New(codes.notFound)
	case errors.Is(err, pkgrepo.ErrAlreadyExists):
		return pkgerrors.New(codes.duplicate)
	case errors.Is(err, pkgrepo.ErrReferenced):
		return pkgerrors.New(codes.referenced)
	case errors.Is(err, pkgrepo.ErrForeignKey):
		return pkgerrors.New(codes.foreignKey)
	default:
		return pkgerrors.Wrap(err, pkgerrors.DatabaseError)
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.ValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return "", pkgerrors.ValidationError("name", "must be at most 100 characters")
	}
	return name, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return pkgerrors.BadRequest("Invalid id")
	}
	return nil
}
