package revenue

import (
	"strings"
)

// The normalizer converts loosely-typed input from imports, legacy records
// and user forms into members of the closed enums. Every function here is
// total: unknown or missing input falls back to a defined default so that an
// invalid value can never propagate into schedule or ledger generation.

// frequencyAliases folds every accepted spelling onto its canonical member
var frequencyAliases = map[string]BillingFrequency{
	"one_time":      FrequencyOneTime,
	"one-time":      FrequencyOneTime,
	"onetime":       FrequencyOneTime,
	"once":          FrequencyOneTime,
	"monthly":       FrequencyMonthly,
	"month":         FrequencyMonthly,
	"quarterly":     FrequencyQuarterly,
	"quarter":       FrequencyQuarterly,
	"semi_annual":   FrequencySemiAnnual,
	"semi_annually": FrequencySemiAnnual,
	"semiannual":    FrequencySemiAnnual,
	"semi-annual":   FrequencySemiAnnual,
	"annual":        FrequencyAnnual,
	"annually":      FrequencyAnnual,
	"yearly":        FrequencyAnnual,
}

// entryTypeAliases folds accepted spellings onto canonical entry types
var entryTypeAliases = map[string]EntryType{
	"revenue":             EntryRevenue,
	"recognized_revenue":  EntryRevenue,
	"deferred_revenue":    EntryDeferredRevenue,
	"deferred":            EntryDeferredRevenue,
	"contract_asset":      EntryContractAsset,
	"contract_liability":  EntryContractLiability,
	"receivable":          EntryReceivable,
	"accounts_receivable": EntryReceivable,
	"ar":                  EntryReceivable,
	"cash":                EntryCash,
	"financing_income":    EntryFinancingIncome,
	"commission_expense":  EntryCommissionExpense,
	"commission":          EntryCommissionExpense,
}

// periodTypeAliases folds accepted spellings onto canonical period types
var periodTypeAliases = map[string]PeriodType{
	"monthly":   PeriodMonthly,
	"month":     PeriodMonthly,
	"quarterly": PeriodQuarterly,
	"quarter":   PeriodQuarterly,
	"annual":    PeriodAnnual,
	"annually":  PeriodAnnual,
	"yearly":    PeriodAnnual,
}

// canonicalKey lower-cases and collapses separators before lookup
func canonicalKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	return key
}

// NormalizeFrequency maps arbitrary input to a billing frequency.
// Unrecognized or empty input yields FrequencyMonthly.
func NormalizeFrequency(raw string) BillingFrequency {
	if f, ok := frequencyAliases[canonicalKey(raw)]; ok {
		return f
	}
	return FrequencyMonthly
}

// NormalizeEntryType maps arbitrary input to a ledger entry type.
// Unrecognized or empty input yields EntryRevenue.
func NormalizeEntryType(raw string) EntryType {
	if t, ok := entryTypeAliases[canonicalKey(raw)]; ok {
		return t
	}
	return EntryRevenue
}

// NormalizePeriodType maps arbitrary input to a snapshot period type.
// Unrecognized or empty input yields PeriodMonthly.
func NormalizePeriodType(raw string) PeriodType {
	if p, ok := periodTypeAliases[canonicalKey(raw)]; ok {
		return p
	}
	return PeriodMonthly
}
