// Package production contiene la lógica pura del motor de producción:
// normalización de cantidades, claves de variación y cálculo de consumo por BOM.
package production

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

var halfUnit = decimal.New(5, -1)

// NormalizeQuantity convierte un valor almacenado en un entero no negativo.
// Números: piso y mínimo 0 (no finitos → 0). Cadenas: se recortan y se toma el
// prefijo entero en base 10 (inválidas o vacías → 0). Otros tipos → 0.
func NormalizeQuantity(v any) int {
	switch t := unwrap(v).(type) {
	case string:
		n, ok := parseIntPrefix(strings.TrimSpace(t))
		if !ok || n < 0 {
			return 0
		}
		return n
	case nil, bool:
		return 0
	default:
		f, ok := numberValue(t)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		f = math.Floor(f)
		if f < 0 {
			return 0
		}
		if f >= math.MaxInt {
			return math.MaxInt
		}
		return int(f)
	}
}

// NormalizeSignedQuantity interpreta el valor como flotante con signo. Las cadenas
// se leen por su prefijo numérico como en NormalizeQuantity ("2.5kg" → 2.5).
// ok es false cuando el valor está ausente, no es finito o no se puede interpretar.
func NormalizeSignedQuantity(v any) (float64, bool) {
	var f float64
	switch t := unwrap(v).(type) {
	case string:
		parsed, ok := parseFloatPrefix(strings.TrimSpace(t))
		if !ok {
			return 0, false
		}
		f = parsed
	case nil, bool:
		return 0, false
	default:
		parsed, ok := numberValue(t)
		if !ok {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RoundCurrency redondea a 4 decimales (mitad hacia arriba) escalando, redondeando
// y desescalando en aritmética decimal. Valores no finitos → 0.
func RoundCurrency(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return RoundDecimal(decimal.NewFromFloat(v)).InexactFloat64()
}

// RoundDecimal aplica el mismo redondeo de RoundCurrency sobre un decimal.
func RoundDecimal(d decimal.Decimal) decimal.Decimal {
	return d.Shift(4).Add(halfUnit).Floor().Shift(-4)
}

func unwrap(v any) any {
	switch t := v.(type) {
	case entity.Number:
		return t.Value()
	case *entity.Number:
		if t == nil {
			return nil
		}
		return t.Value()
	}
	return v
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case decimal.Decimal:
		return t.InexactFloat64(), true
	}
	return 0, false
}

// parseIntPrefix lee un signo opcional y los dígitos iniciales ("12.7" → 12, "7kg" → 7).
// Un prefijo fuera de rango se satura en ±MaxInt.
func parseIntPrefix(s string) (int, bool) {
	i := signLen(s)
	end := skipDigits(s, i)
	if end == i {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return n, true
		}
		return 0, false
	}
	return n, true
}

// parseFloatPrefix lee el prefijo decimal más largo: signo, dígitos, fracción y
// exponente opcionales ("2.5kg" → 2.5, ".5" → 0.5, "1e3x" → 1000).
func parseFloatPrefix(s string) (float64, bool) {
	i := signLen(s)
	intEnd := skipDigits(s, i)
	end := intEnd
	if end < len(s) && s[end] == '.' {
		fracEnd := skipDigits(s, end+1)
		if fracEnd > end+1 || intEnd > i {
			end = fracEnd
		}
	}
	if end == i {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		j += signLen(s[j:])
		if expEnd := skipDigits(s, j); expEnd > j {
			end = expEnd
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func signLen(s string) int {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return 1
	}
	return 0
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
