package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-for-unit-tests"

var ident = Identity{UserID: "u1", CompanyID: "c1", Role: "bodeguero"}

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate(secret, ident, "erp", time.Hour)
	require.NoError(t, err)

	got, err := NewValidator(secret, "erp").Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, ident, got)
}

func TestParse_Rechazos(t *testing.T) {
	vencido, err := Generate(secret, ident, "erp", -time.Hour)
	require.NoError(t, err)
	valido, err := Generate(secret, ident, "erp", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name string
		v    *Validator
		tok  string
	}{
		{"vencido", NewValidator(secret, ""), vencido},
		{"secret distinto", NewValidator("otro-secret-completamente-distinto", ""), valido},
		{"emisor distinto", NewValidator(secret, "otro"), valido},
		{"malformado", NewValidator(secret, ""), "token.invalido.aqui"},
		{"sin secret", NewValidator("", ""), valido},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.v.Parse(tc.tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := Generate("", ident, "erp", time.Hour)
	assert.Error(t, err)
}
