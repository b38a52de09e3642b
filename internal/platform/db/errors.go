package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

// constraintMessages maps named constraints from migrations/ to caller-facing messages.
var constraintMessages = map[string]string{
	"accounts_email_key":                  "email already in use",
	"provider_links_provider_account_key": "provider account already linked",
	"organizations_slug_key":              "slug already in use",
	"memberships_account_org_key":         "account is already a member of this organization",
	"transaction_categories_name_key":     "category already exists",
	"appointments_patient_fk":             "patient not found",
	"transactions_patient_fk":             "patient not found",
	"transactions_category_fk":            "transaction category not found",
	"anamnesis_questions_template_fk":     "anamnesis template not found",
	"patient_anamneses_patient_fk":        "patient not found",
	"patient_anamneses_template_fk":       "anamnesis template not found",
	"memberships_account_fk":              "account not found",
	"appointments_time_check":             "end time must be after start time",
	"transactions_amount_check":           "amount must be positive",
}

// MapError translates pgx errors into apperr kinds. entity names the row for
// NOT_FOUND and CONFLICT messages when no constraint-specific message exists.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.Wrap(apperr.KindNotFound, entity+" not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Internal(entity+" query failed", err)
	}

	msg, known := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if !known {
			msg = entity + " already exists"
		}
		return apperr.Wrap(apperr.KindConflict, msg, err)
	case pgerrcode.ForeignKeyViolation:
		if !known {
			msg = "referenced record not found"
		}
		return apperr.Wrap(apperr.KindNotFound, msg, err)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		if !known {
			msg = "invalid " + entity
		}
		return apperr.Wrap(apperr.KindInvalid, msg, err)
	case pgerrcode.InvalidTextRepresentation, pgerrcode.InvalidDatetimeFormat,
		pgerrcode.StringDataRightTruncationDataException, pgerrcode.NumericValueOutOfRange:
		return apperr.Wrap(apperr.KindInvalid, "invalid "+entity+" value", err)
	default:
		return apperr.Internal(entity+" query failed", err)
	}
}
