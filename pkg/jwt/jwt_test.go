package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	id := jwt.Identity{UserID: "u-1", Username: "user", Role: "USER", Seller: true}

	token, err := jwt.Generate("secreto", id, "stock-ledger", 5)
	require.NoError(t, err)

	got, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", jwt.Identity{UserID: "u-1", Role: "ADMIN"}, "stock-ledger", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", jwt.Identity{UserID: "u-1", Role: "ADMIN"}, "stock-ledger", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := jwt.Generate("", jwt.Identity{UserID: "u-1"}, "x", 5)
	assert.Error(t, err)
}
