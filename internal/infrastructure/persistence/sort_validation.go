package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"address":    true,
	"active":     true,
}

// BinSortFields contains allowed sort fields for bins
var BinSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"zone":       true,
	"status":     true,
	"active":     true,
}

// BinContentSortFields contains allowed sort fields for the quantity ledger
var BinContentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"batch_number":      true,
	"quantity":          true,
	"reserved_quantity": true,
	"use_by_date":       true,
	"received_at":       true,
	"status":            true,
}

// ReservationSortFields contains allowed sort fields for reservations
var ReservationSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"requested_quantity": true,
	"allocated_quantity": true,
	"status":             true,
	"reference":          true,
	"expires_at":         true,
}

// TransferSortFields contains allowed sort fields for transfers
var TransferSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"batch_number":  true,
	"quantity_sent": true,
	"status":        true,
	"dispatched_at": true,
	"received_at":   true,
}
