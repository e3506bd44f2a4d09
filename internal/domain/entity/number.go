package entity

import (
	"bytes"
	"encoding/json"
)

// Number conserva el valor numérico tal como viene almacenado en el documento
// (número, cadena numérica o null). La normalización vive en domain/production.
type Number struct {
	v any
}

// NewNumber envuelve un valor arbitrario.
func NewNumber(v any) Number { return Number{v: v} }

// Value devuelve el valor crudo.
func (n Number) Value() any { return n.v }

// IsZero informa si no hay valor almacenado.
func (n Number) IsZero() bool { return n.v == nil }

// MarshalJSON escribe el valor crudo.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.v)
}

// UnmarshalJSON acepta cualquier literal JSON; los números se conservan como json.Number.
func (n *Number) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	n.v = v
	return nil
}
