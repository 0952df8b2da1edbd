package postgres

import (
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert article: %w", &pgconn.PgError{Code: "23505", ConstraintName: "articles_barcode_key"})

	assert.True(t, isUniqueViolation(err, ""))
	assert.True(t, isUniqueViolation(err, "articles_barcode_key"))
	assert.False(t, isUniqueViolation(err, "users_username_key"))
	assert.False(t, isUniqueViolation(errors.New("23505"), ""))
}

func TestIsRetryable(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		assert.True(t, isRetryable(&pgconn.PgError{Code: code}), code)
	}
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("boom")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%leche%`, likePattern("leche"))
	assert.Equal(t, `%50\%\_x%`, likePattern("50%_x"))
}

func TestAccentTable(t *testing.T) {
	// translate() empareja por posición: misma cantidad de caracteres y destino ASCII
	assert.Equal(t, utf8.RuneCountInString(accentFrom), utf8.RuneCountInString(accentTo))
	assert.Equal(t, len(accentTo), utf8.RuneCountInString(accentTo))
	assert.Contains(t, accentFrom, "ó")
	assert.Contains(t, accentFrom, "ñ")
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "u1", deref(nullable("u1")))
	assert.Equal(t, "", deref(nil))
}
