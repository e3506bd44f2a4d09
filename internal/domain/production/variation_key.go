package production

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Prefijos de las claves derivadas.
const (
	keyPrefixID    = "id::"
	keyPrefixLabel = "label::"
	keyPrefixIndex = "index::"
)

// BuildVariationKey deriva la identidad estable de una variación de lote.
// Prioridad: variationKey → variationId → id::<id> → label::<label>::<index> → index::<index>.
// index debe ser la posición de la variación dentro de su lista.
func BuildVariationKey(v entity.LotVariation, index int) string {
	if k := strings.TrimSpace(v.VariationKey); k != "" {
		return k
	}
	if id := strings.TrimSpace(v.VariationID); id != "" {
		return id
	}
	if id := strings.TrimSpace(v.ID); id != "" {
		return keyPrefixID + id
	}
	if label := strings.TrimSpace(v.Label); label != "" {
		return keyPrefixLabel + cases.Lower(language.Und).String(label) + "::" + strconv.Itoa(index)
	}
	return keyPrefixIndex + strconv.Itoa(index)
}

// idFromVariationKey extrae el id de una clave "id::<id>".
func idFromVariationKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, keyPrefixID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// sameLabel compara etiquetas recortadas sin distinguir mayúsculas (case folding Unicode).
func sameLabel(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
