package apperror

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-portfolio-backend/internal/repo"
)

// ErrCORSRejected is returned by the CORS gate for disallowed origins.
var ErrCORSRejected = errors.New("not allowed by CORS")

// MySQL server error numbers the normalizer understands.
const (
	mysqlDuplicateEntry  = 1062
	mysqlCheckViolated   = 3819
	mysqlBadNullError    = 1048
	mysqlDataTooLong     = 1406
	genericInternalError = "Internal server error"
)

var (
	sqliteUniqueRE = regexp.MustCompile(`(?i)UNIQUE constraint failed: ([\w.]+(?:,\s*[\w.]+)*)`)
	sqliteCheckRE  = regexp.MustCompile(`(?i)CHECK constraint failed: (\w+)`)
	mysqlKeyRE     = regexp.MustCompile(`for key '([^']+)'`)
	mysqlColumnRE  = regexp.MustCompile(`(?i)column '([^']+)'`)
)

// Normalize maps any error onto exactly one *Error. It never returns nil for
// a non-nil err, and Normalize(Normalize(e)) has the same kind/status/code as
// Normalize(e).
//
// production controls whether the message of uncategorized failures is
// replaced with a generic phrase.
func Normalize(err error, production bool) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}

	// Field validation from gin binding / go-playground validator.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidator(verrs).WithCause(err)
	}

	// Malformed request bodies.
	if e := fromDecodeError(err); e != nil {
		return e
	}

	// Storage-layer failures.
	var schemaErr *repo.SchemaError
	if errors.As(err, &schemaErr) {
		details := make([]FieldError, 0, len(schemaErr.Violations))
		for _, v := range schemaErr.Violations {
			details = append(details, FieldError{Field: v.Field, Message: v.Message, Value: v.Value, Location: "body"})
		}
		return Validation("Database validation failed", details...).WithCause(err)
	}
	var idErr *repo.InvalidIDError
	if errors.As(err, &idErr) {
		return Validation("Invalid ID format", FieldError{
			Field:    idErr.Param,
			Message:  "Invalid ID format",
			Value:    idErr.Value,
			Location: "params",
		}).WithCause(err)
	}
	if e := fromMySQL(err); e != nil {
		return e
	}
	if e := fromSQLite(err); e != nil {
		return e
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate("resource", err)
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return Validation("Database validation failed", FieldError{
			Field: "document", Message: "value violates a schema constraint", Location: "body",
		}).WithCause(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("Resource not found").WithCause(err)
	}

	// Token/credential failures (reserved: the API has no auth today).
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Authentication("Token expired").WithCause(err)
	}
	if isJWTError(err) {
		return Authentication("Invalid token").WithCause(err)
	}

	// Cross-origin rejection.
	if errors.Is(err, ErrCORSRejected) || strings.Contains(err.Error(), "CORS") {
		return Authorization("CORS policy violation").WithCause(err)
	}

	// Client went away.
	if errors.Is(err, context.Canceled) {
		return Internal("request aborted", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Internal("request timed out", err)
	}

	msg := err.Error()
	if production {
		msg = genericInternalError
	}
	return Internal(msg, err)
}

func duplicate(field string, cause error) *Error {
	return Validation("Duplicate value error", FieldError{
		Field:    field,
		Message:  field + " already exists",
		Location: "body",
	}).WithCause(cause)
}

func fromDecodeError(err error) *Error {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &syn):
		return Validation("Malformed JSON body", FieldError{
			Field: "body", Message: syn.Error(), Location: "body",
		}).WithCause(err)
	case errors.As(err, &typ):
		field := typ.Field
		if field == "" {
			field = "body"
		}
		return Validation("Validation failed", FieldError{
			Field: field, Message: field + " must be a " + typ.Type.String(), Value: typ.Value, Location: "body",
		}).WithCause(err)
	case errors.As(err, &tooBig):
		return Validation("Request body too large", FieldError{
			Field: "body", Message: "request body exceeds the size limit", Location: "body",
		}).WithCause(err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return Validation("Request body is required", FieldError{
			Field: "body", Message: "request body is empty or truncated", Location: "body",
		}).WithCause(err)
	}
	return nil
}

func fromMySQL(err error) *Error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return nil
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		field := "resource"
		if m := mysqlKeyRE.FindStringSubmatch(me.Message); m != nil {
			field = indexField(m[1])
		}
		return duplicate(field, err)
	case mysqlCheckViolated, mysqlBadNullError, mysqlDataTooLong:
		field := "document"
		if m := mysqlColumnRE.FindStringSubmatch(me.Message); m != nil {
			field = m[1]
		}
		return Validation("Database validation failed", FieldError{
			Field: field, Message: me.Message, Location: "body",
		}).WithCause(err)
	}
	return Database("Database operation failed", err)
}

func fromSQLite(err error) *Error {
	msg := err.Error()
	if m := sqliteUniqueRE.FindStringSubmatch(msg); m != nil {
		cols := strings.Split(m[1], ",")
		last := strings.TrimSpace(cols[len(cols)-1])
		if i := strings.LastIndex(last, "."); i >= 0 {
			last = last[i+1:]
		}
		return duplicate(last, err)
	}
	if m := sqliteCheckRE.FindStringSubmatch(msg); m != nil {
		field := indexField(m[1])
		return Validation("Database validation failed", FieldError{
			Field: field, Message: field + " violates a schema constraint", Location: "body",
		}).WithCause(err)
	}
	return nil
}

// indexField turns an index or constraint name such as
// "skills.ux_skills_category_name" or "chk_contacts_status" into the most
// specific column it names.
func indexField(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	parts := strings.Split(key, "_")
	if len(parts) == 0 {
		return key
	}
	return parts[len(parts)-1]
}

func isJWTError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenRequiredClaimMissing,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func fromValidator(verrs validator.ValidationErrors) *Error {
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:    fe.Field(),
			Message:  validatorMessage(fe),
			Value:    fe.Value(),
			Location: "body",
		})
	}
	return Validation("Validation failed", details...)
}

func validatorMessage(fe validator.FieldError) string {
	// Casers are stateful; build one per call.
	name := cases.Title(language.English).String(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	case "email":
		return "Please provide a valid email address"
	case "personname":
		return name + " can only contain letters, spaces, hyphens, apostrophes, and periods"
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return name + " must be a valid UUID"
	default:
		return name + " is invalid"
	}
}
