package entity

// Dashboard etapa del pipeline de producción. Position define el orden.
type Dashboard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Active   *bool  `json:"active,omitempty"` // nil = activo
}
