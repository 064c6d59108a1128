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

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"contract_number": true,
	"name":            true,
	"customer_name":   true,
	"total_value":     true,
	"status":          true,
	"start_date":      true,
	"end_date":        true,
}

// ScheduleSortFields contains allowed sort fields for billing schedules
var ScheduleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"billing_date": true,
	"due_date":     true,
	"amount":       true,
	"status":       true,
}

// LedgerSortFields contains allowed sort fields for ledger entries
var LedgerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"entry_date": true,
	"entry_type": true,
	"amount":     true,
	"is_posted":  true,
	"posted_at":  true,
}

// BalanceSortFields contains allowed sort fields for balance snapshots
var BalanceSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"period_date": true,
	"period_type": true,
}
