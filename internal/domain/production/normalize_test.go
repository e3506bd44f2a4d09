package production_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/production"
)

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeQuantity_Casos(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"entero", 12, 12},
		{"flotante se trunca", 12.9, 12},
		{"negativo se lleva a cero", -4.2, 0},
		{"NaN", math.NaN(), 0},
		{"infinito", math.Inf(1), 0},
		{"cadena con espacios", "  42 ", 42},
		{"cadena con decimales", "7.8", 7},
		{"cadena con sufijo", "15kg", 15},
		{"cadena inválida", "abc", 0},
		{"cadena vacía", "", 0},
		{"cadena negativa", "-3", 0},
		{"json.Number", json.Number("9.5"), 9},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"otro tipo", []int{1}, 0},
		{"entity.Number", entity.NewNumber(json.Number("100")), 100},
		{"flotante fuera de rango se satura", 1e20, math.MaxInt},
		{"flotante muy grande se satura", 1e300, math.MaxInt},
		{"json.Number fuera de rango", json.Number("1e20"), math.MaxInt},
		{"cadena fuera de rango se satura", "99999999999999999999999", math.MaxInt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, production.NormalizeQuantity(tc.in))
		})
	}
}

func TestNormalizeSignedQuantity_DistingueAusenteDeCero(t *testing.T) {
	v, ok := production.NormalizeSignedQuantity(-2.5)
	assert.True(t, ok)
	assert.Equal(t, -2.5, v)

	v, ok = production.NormalizeSignedQuantity("0.125")
	assert.True(t, ok)
	assert.Equal(t, 0.125, v)

	v, ok = production.NormalizeSignedQuantity(0)
	assert.True(t, ok, "cero es un valor presente")
	assert.Zero(t, v)

	_, ok = production.NormalizeSignedQuantity(math.Inf(-1))
	assert.False(t, ok)
	_, ok = production.NormalizeSignedQuantity("x")
	assert.False(t, ok)
	_, ok = production.NormalizeSignedQuantity(nil)
	assert.False(t, ok)
}

func TestNormalizeSignedQuantity_PrefijoNumerico(t *testing.T) {
	cases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2.5kg", 2.5, true},
		{" -0.75 m ", -0.75, true},
		{".5", 0.5, true},
		{"3.", 3, true},
		{"-1.25e1x", -12.5, true},
		{"4e", 4, true},
		{"kg", 0, false},
		{".", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, ok := production.NormalizeSignedQuantity(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestBuildProductionDetails_TargetEnormeNoSeDescarta(t *testing.T) {
	details := production.BuildProductionDetails(&entity.Lot{ProductID: "camisa", Target: entity.NewNumber(1e20)})
	if assert.Len(t, details, 1) {
		assert.Positive(t, details[0].Produced)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RoundCurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundCurrency_CuatroDecimales(t *testing.T) {
	assert.Equal(t, 1.2346, production.RoundCurrency(1.23456))
	assert.Equal(t, 1.0001, production.RoundCurrency(1.00005), "mitad hacia arriba")
	assert.Equal(t, 2.0, production.RoundCurrency(1.99999))
	assert.Equal(t, -1.2345, production.RoundCurrency(-1.23454))
	assert.Equal(t, 0.0, production.RoundCurrency(math.NaN()))
	assert.Equal(t, 0.0, production.RoundCurrency(math.Inf(1)))
}

func TestRoundCurrency_Idempotente(t *testing.T) {
	for _, x := range []float64{0, 1.23456789, -98.76543, 1e6 + 0.00004999, 0.1 + 0.2, 123.45675} {
		once := production.RoundCurrency(x)
		assert.Equal(t, once, production.RoundCurrency(once), "x=%v", x)
	}
}
