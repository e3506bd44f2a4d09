package dto

// DashboardResponse etapa del pipeline.
type DashboardResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// DashboardOrderResponse orden vigente de etapas activas.
type DashboardOrderResponse struct {
	Dashboards []DashboardResponse `json:"dashboards"`
}
