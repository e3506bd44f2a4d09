package entity

import "time"

// LotStatus estado del ciclo de vida de un lote dentro de un dashboard.
type LotStatus string

const (
	LotStatusFuture             LotStatus = "future"
	LotStatusOngoing            LotStatus = "ongoing"
	LotStatusCompleted          LotStatus = "completed"
	LotStatusCompletedMissing   LotStatus = "completed_missing"
	LotStatusCompletedExceeding LotStatus = "completed_exceeding"
)

// IsCompleted agrupa las tres variantes de "completado".
func (s LotStatus) IsCompleted() bool {
	switch s {
	case LotStatusCompleted, LotStatusCompletedMissing, LotStatusCompletedExceeding:
		return true
	}
	return false
}

// IsOpen informa si el lote aún no fue completado (future u ongoing).
// Un estado vacío se trata como future.
func (s LotStatus) IsOpen() bool {
	return s == "" || s == LotStatusFuture || s == LotStatusOngoing
}

// LotVariation subdivisión de un lote (color, talla) con cantidades propias.
type LotVariation struct {
	ID           string `json:"id,omitempty"`
	VariationID  string `json:"variationId,omitempty"`
	VariationKey string `json:"variationKey,omitempty"`
	Label        string `json:"label,omitempty"`
	Target       Number `json:"target"`
	Produced     Number `json:"produced"`
}

// MigrationHistoryEntry registro de un paso del lote entre dashboards.
type MigrationHistoryEntry struct {
	FromDashboardID string    `json:"fromDashboardId"`
	ToDashboardID   string    `json:"toDashboardId"`
	SourceLotID     string    `json:"sourceLotId"`
	MigratedAt      time.Time `json:"migratedAt"`
}

// SameTransition compara por (from, to, sourceLotId); migratedAt no participa.
func (e MigrationHistoryEntry) SameTransition(o MigrationHistoryEntry) bool {
	return e.FromDashboardID == o.FromDashboardID &&
		e.ToDashboardID == o.ToDashboardID &&
		e.SourceLotID == o.SourceLotID
}

// Lot unidad de trabajo de producción asignada a un dashboard (etapa).
// Los nombres JSON son parte del contrato entre componentes.
type Lot struct {
	ID             string         `json:"id,omitempty"`
	DashboardID    string         `json:"dashboardId,omitempty"`
	ProductID      string         `json:"productId,omitempty"`
	ProductBaseID  string         `json:"productBaseId,omitempty"`
	ProductName    string         `json:"productName,omitempty"`
	Description    string         `json:"description,omitempty"`
	Target         Number         `json:"target"`
	Produced       Number         `json:"produced"`
	Variations     []LotVariation `json:"variations,omitempty"`
	Status         LotStatus      `json:"status,omitempty"`
	Order          int64          `json:"order,omitempty"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	CreatedByEmail string         `json:"createdByEmail,omitempty"`
	UpdatedBy      string         `json:"updatedBy,omitempty"`
	UpdatedByEmail string         `json:"updatedByEmail,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	StartedAt      *time.Time     `json:"startedAt"`
	CompletedAt    *time.Time     `json:"completedAt"`

	MigratedFromDashboard string                  `json:"migratedFromDashboard,omitempty"`
	MigratedToDashboardID string                  `json:"migratedToDashboardId,omitempty"`
	NextDashboardLotID    string                  `json:"nextDashboardLotId,omitempty"`
	SourceLotID           string                  `json:"sourceLotId,omitempty"`
	MigrationHistory      []MigrationHistoryEntry `json:"migrationHistory,omitempty"`
	MigrationMetadata     *MigrationHistoryEntry  `json:"migrationMetadata,omitempty"`

	// Revision versión de la fila leída; no forma parte del documento.
	Revision int64 `json:"-"`
}

// Clone copia profunda sobre la forma conocida del documento.
func (l *Lot) Clone() *Lot {
	if l == nil {
		return nil
	}
	c := *l
	if l.Variations != nil {
		c.Variations = make([]LotVariation, len(l.Variations))
		copy(c.Variations, l.Variations)
	}
	if l.MigrationHistory != nil {
		c.MigrationHistory = make([]MigrationHistoryEntry, len(l.MigrationHistory))
		copy(c.MigrationHistory, l.MigrationHistory)
	}
	c.CreatedAt = cloneTime(l.CreatedAt)
	c.StartedAt = cloneTime(l.StartedAt)
	c.CompletedAt = cloneTime(l.CompletedAt)
	if l.MigrationMetadata != nil {
		m := *l.MigrationMetadata
		c.MigrationMetadata = &m
	}
	return &c
}

// HasHistoryEntry informa si el historial ya contiene la misma transición.
func (l *Lot) HasHistoryEntry(e MigrationHistoryEntry) bool {
	for _, h := range l.MigrationHistory {
		if h.SameTransition(e) {
			return true
		}
	}
	return false
}

// AppendHistory agrega la entrada solo si no existe (unión append-only).
// Devuelve true si el historial cambió.
func (l *Lot) AppendHistory(e MigrationHistoryEntry) bool {
	if l.HasHistoryEntry(e) {
		return false
	}
	l.MigrationHistory = append(l.MigrationHistory, e)
	return true
}

// Actor devuelve el usuario que editó el lote por última vez (o quien lo creó).
func (l *Lot) Actor() (userID, email string) {
	if l.UpdatedBy != "" {
		return l.UpdatedBy, l.UpdatedByEmail
	}
	return l.CreatedBy, l.CreatedByEmail
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
