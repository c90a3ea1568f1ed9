package model

import (
	"tablebook/shared/model"
)

const (
	TableName  = "restaurant_tables"
	EntityName = "table"

	FieldID       = "id"
	FieldTenantID = "tenant_id"
	FieldName     = "name"
	FieldCapacity = "capacity"
	FieldActive   = "active"
)

// Table is a restaurant table owned by the tenant configuration.
type Table struct {
	ID       string `db:"id"        json:"id"`
	TenantID string `db:"tenant_id" json:"tenant_id"`
	Name     string `db:"name"      json:"name"`
	Capacity int    `db:"capacity"  json:"capacity"`
	Active   bool   `db:"active"    json:"active"`
	model.Metadata
}
