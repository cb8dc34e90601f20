package domain

type PropertySummary struct {
	PropertyID   int64  `json:"property_id"`
	TenantID     string `json:"tenant_id"`
	PropertyName string `json:"property_name"`
}
