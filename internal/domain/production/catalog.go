package production

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// Catalog índice de productos armado desde una o más fuentes de catálogo.
// En colisiones de id gana la primera fuente.
type Catalog struct {
	byID     map[string]*entity.Product
	byFamily map[string]*entity.Product
}

// NewCatalog indexa los productos por id y por familia (baseProductId, o el propio
// id cuando el producto no declara base).
func NewCatalog(sources ...[]*entity.Product) *Catalog {
	c := &Catalog{
		byID:     make(map[string]*entity.Product),
		byFamily: make(map[string]*entity.Product),
	}
	for _, products := range sources {
		for _, p := range products {
			if p == nil || p.ID == "" {
				continue
			}
			if _, ok := c.byID[p.ID]; !ok {
				c.byID[p.ID] = p
			}
			family := p.BaseProductID
			if family == "" {
				family = p.ID
			}
			if _, ok := c.byFamily[family]; !ok {
				c.byFamily[family] = p
			}
		}
	}
	return c
}

// Len cantidad de productos distintos.
func (c *Catalog) Len() int { return len(c.byID) }

// Resolve busca por productId y, si falla, por la familia de productBaseId.
func (c *Catalog) Resolve(productID, productBaseID string) *entity.Product {
	if c == nil {
		return nil
	}
	if p, ok := c.byID[productID]; ok && productID != "" {
		return p
	}
	if productBaseID == "" {
		return nil
	}
	if p, ok := c.byFamily[productBaseID]; ok {
		return p
	}
	return c.byID[productBaseID]
}

// resolveVariation: variationId → id embebido en la clave "id::" → etiqueta.
func resolveVariation(p *entity.Product, v DetailVariation) *entity.ProductVariation {
	if p == nil || len(p.Variations) == 0 {
		return nil
	}
	if v.VariationID != "" {
		if pv := findVariationByID(p, v.VariationID); pv != nil {
			return pv
		}
	}
	if id, ok := idFromVariationKey(v.VariationKey); ok {
		if pv := findVariationByID(p, id); pv != nil {
			return pv
		}
	}
	for i := range p.Variations {
		if sameLabel(p.Variations[i].Label, v.Label) {
			return &p.Variations[i]
		}
	}
	return nil
}

func findVariationByID(p *entity.Product, id string) *entity.ProductVariation {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i]
		}
	}
	return nil
}
