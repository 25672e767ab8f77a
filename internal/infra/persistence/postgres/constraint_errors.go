package postgres

import (
	"strings"

	"boutique/internal/errors"

	"gorm.io/gorm"
)

// isUniqueConstraintViolation recognises duplicate-key errors from gorm's
// translated error or, when translation is off, the driver message.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "sqlstate 23505")
}

// isNotFound reports gorm's record-not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// likePattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}
