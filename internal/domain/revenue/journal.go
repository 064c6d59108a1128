package revenue

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// JournalEventKind classifies an economic event in a contract's life
type JournalEventKind string

const (
	JournalEventInvoice JournalEventKind = "invoice"
	JournalEventCash    JournalEventKind = "cash"
	JournalEventRevenue JournalEventKind = "revenue"
)

// journalKindOrder breaks ties between events sharing a date: an invoice
// typically precedes the cash that settles it, and revenue recognition is
// independent of both.
var journalKindOrder = map[JournalEventKind]int{
	JournalEventInvoice: 0,
	JournalEventCash:    1,
	JournalEventRevenue: 2,
}

// IsValid checks if the kind is a member of the closed enum
func (k JournalEventKind) IsValid() bool {
	_, ok := journalKindOrder[k]
	return ok
}

// JournalEvent is one dated economic event fed into journal derivation
type JournalEvent struct {
	Kind   JournalEventKind
	Date   valueobject.CalendarDate
	Amount decimal.Decimal
	Key    string
}

// JournalLine is one derived double-entry line
type JournalLine struct {
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	EventKind     JournalEventKind
	EventKey      string
}

// PostJournal derives double-entry journal lines from a stream of invoice,
// cash and revenue events under the contract asset/liability model:
//
//   - invoice: Dr AR; Cr Contract Asset up to the existing contract asset,
//     remainder Cr Contract Liability
//   - cash: Dr Cash; Cr AR up to open AR, remainder Cr Contract Liability
//     (advance payment)
//   - revenue: Dr Contract Liability up to the existing liability, remainder
//     Dr Contract Asset; Cr Revenue
//
// Events with a non-positive amount are skipped. Amounts are rounded to the
// currency's minor unit per line.
func PostJournal(events []JournalEvent) ([]JournalLine, error) {
	sorted := make([]JournalEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return journalKindOrder[sorted[i].Kind] < journalKindOrder[sorted[j].Kind]
	})

	billed := decimal.Zero
	cash := decimal.Zero
	recognized := decimal.Zero

	var lines []JournalLine
	appendLine := func(debit, credit string, amount decimal.Decimal, ev JournalEvent) {
		if amount.IsPositive() {
			lines = append(lines, JournalLine{
				DebitAccount:  debit,
				CreditAccount: credit,
				Amount:        amount.Round(2),
				EventKind:     ev.Kind,
				EventKey:      ev.Key,
			})
		}
	}

	for _, ev := range sorted {
		amt := ev.Amount
		if amt.IsNegative() || amt.IsZero() {
			continue
		}

		switch ev.Kind {
		case JournalEventInvoice:
			contractAsset := decimal.Max(decimal.Zero, recognized.Sub(billed))
			toAsset := decimal.Min(amt, contractAsset)
			toLiability := amt.Sub(toAsset)
			appendLine(AccountReceivable, AccountContractAsset, toAsset, ev)
			appendLine(AccountReceivable, AccountContractLiability, toLiability, ev)
			billed = billed.Add(amt).Round(2)

		case JournalEventCash:
			openAR := decimal.Max(decimal.Zero, billed.Sub(cash))
			toAR := decimal.Min(amt, openAR)
			toLiability := amt.Sub(toAR)
			appendLine(AccountCash, AccountReceivable, toAR, ev)
			appendLine(AccountCash, AccountContractLiability, toLiability, ev)
			cash = cash.Add(amt).Round(2)

		case JournalEventRevenue:
			contractLiability := decimal.Max(decimal.Zero, billed.Sub(recognized))
			fromLiability := decimal.Min(amt, contractLiability)
			toAsset := amt.Sub(fromLiability)
			appendLine(AccountContractLiability, AccountRevenue, fromLiability, ev)
			appendLine(AccountContractAsset, AccountRevenue, toAsset, ev)
			recognized = recognized.Add(amt).Round(2)

		default:
			return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported journal event kind: "+string(ev.Kind))
		}
	}

	return lines, nil
}

// AccountBalance summarises one account's side totals in a trial balance
type AccountBalance struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
	Net    decimal.Decimal `json:"net"`
}

// TrialBalance rolls journal lines up into per-account debit, credit and
// debit-positive net figures
func TrialBalance(lines []JournalLine) map[string]AccountBalance {
	debits := map[string]decimal.Decimal{}
	credits := map[string]decimal.Decimal{}

	for _, line := range lines {
		if line.Amount.IsNegative() || line.Amount.IsZero() {
			continue
		}
		debits[line.DebitAccount] = debits[line.DebitAccount].Add(line.Amount)
		credits[line.CreditAccount] = credits[line.CreditAccount].Add(line.Amount)
	}

	out := make(map[string]AccountBalance)
	for account := range debits {
		out[account] = AccountBalance{}
	}
	for account := range credits {
		out[account] = AccountBalance{}
	}
	for account := range out {
		dr := debits[account].Round(2)
		cr := credits[account].Round(2)
		out[account] = AccountBalance{Debit: dr, Credit: cr, Net: dr.Sub(cr).Round(2)}
	}
	return out
}

// JournalTotals returns total debits and credits across all lines; the two
// are equal for any output of PostJournal
func JournalTotals(lines []JournalLine) (debits, credits decimal.Decimal) {
	for _, line := range lines {
		if line.Amount.IsNegative() || line.Amount.IsZero() {
			continue
		}
		debits = debits.Add(line.Amount)
		credits = credits.Add(line.Amount)
	}
	return debits.Round(2), credits.Round(2)
}
