package revenue

import (
	"github.com/shopspring/decimal"
)

// ReconciliationRow reports one account's movement over a set of entries
type ReconciliationRow struct {
	Opening decimal.Decimal `json:"opening"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Closing decimal.Decimal `json:"closing"`
}

// Reconcile aggregates ledger entries into per-account debit/credit movement
// and closing balances. Each entry contributes its amount on the natural
// side of its entry type; entry types outside the closed enum take
// defaultNature. Closing balances follow the account nature:
//
//	debit-natured:  closing = opening + debits - credits
//	credit-natured: closing = opening - debits + credits
func Reconcile(
	entries []LedgerEntry,
	openingBalances map[EntryType]decimal.Decimal,
	defaultNature AccountNature,
) map[EntryType]ReconciliationRow {
	debits := map[EntryType]decimal.Decimal{}
	credits := map[EntryType]decimal.Decimal{}

	natureOf := func(t EntryType) AccountNature {
		if nature, ok := entryTypeNatures[t]; ok {
			return nature
		}
		return defaultNature
	}

	for i := range entries {
		entry := &entries[i]
		if natureOf(entry.EntryType) == NatureDebit {
			debits[entry.EntryType] = debits[entry.EntryType].Add(entry.Amount)
		} else {
			credits[entry.EntryType] = credits[entry.EntryType].Add(entry.Amount)
		}
	}

	accounts := map[EntryType]struct{}{}
	for account := range openingBalances {
		accounts[account] = struct{}{}
	}
	for account := range debits {
		accounts[account] = struct{}{}
	}
	for account := range credits {
		accounts[account] = struct{}{}
	}

	results := make(map[EntryType]ReconciliationRow, len(accounts))
	for account := range accounts {
		opening := openingBalances[account]
		dr := debits[account]
		cr := credits[account]
		var closing decimal.Decimal
		if natureOf(account) == NatureDebit {
			closing = opening.Add(dr).Sub(cr)
		} else {
			closing = opening.Sub(dr).Add(cr)
		}
		results[account] = ReconciliationRow{
			Opening: opening.Round(2),
			Debit:   dr.Round(2),
			Credit:  cr.Round(2),
			Closing: closing.Round(2),
		}
	}
	return results
}
