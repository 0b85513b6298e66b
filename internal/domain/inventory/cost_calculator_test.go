package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
)

func TestPrecision_UnitCost(t *testing.T) {
	p := inventory.DefaultPrecision()

	tests := []struct {
		name  string
		value string
		qty   string
		want  string
	}{
		{"exacto", "1000", "10", "100"},
		{"redondea a seis dígitos", "100", "3", "33.333333"},
		{"capa negativa", "-350", "-7", "50"},
		{"signos mezclados", "-200", "4", "50"},
		{"cantidad cero", "500", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.UnitCost(d(tt.value), d(tt.qty))
			assert.True(t, got.Equal(d(tt.want)), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestPrecision_UnitDigitsConfigurable(t *testing.T) {
	p := inventory.Precision{Value: 2, UnitDigits: 2}
	assert.True(t, p.UnitCost(d("100"), d("3")).Equal(d("33.33")))
	assert.True(t, p.RoundUnit(d("1.005")).Equal(d("1.01")))
	assert.True(t, p.LineValue(d("3"), d("33.333333")).Equal(d("100")))
}
