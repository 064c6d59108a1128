package revenue

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
)

// ReportService derives read-only accounting views: the double-entry journal
// of a contract's billing and recognition history, and per-account
// reconciliation over the tenant's ledger entries.
type ReportService struct {
	scheduleRepo revenue.BillingScheduleRepository
	ledgerRepo   revenue.LedgerEntryRepository
}

// NewReportService creates a new ReportService
func NewReportService(scheduleRepo revenue.BillingScheduleRepository, ledgerRepo revenue.LedgerEntryRepository) *ReportService {
	return &ReportService{scheduleRepo: scheduleRepo, ledgerRepo: ledgerRepo}
}

// ===================== Response DTOs =====================

// JournalLineResponse represents one derived journal line in API responses
type JournalLineResponse struct {
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	EventKind     string          `json:"event_kind"`
	EventKey      string          `json:"event_key,omitempty"`
}

// ContractJournalResponse is the journal derivation for one contract
type ContractJournalResponse struct {
	ContractID   uuid.UUID                         `json:"contract_id"`
	Lines        []JournalLineResponse             `json:"lines"`
	TrialBalance map[string]revenue.AccountBalance `json:"trial_balance"`
	TotalDebits  decimal.Decimal                   `json:"total_debits"`
	TotalCredits decimal.Decimal                   `json:"total_credits"`
}

// ReconciliationResponse reports per-account movement over the ledger
type ReconciliationResponse struct {
	Accounts map[string]revenue.ReconciliationRow `json:"accounts"`
}

// ===================== Operations =====================

// ContractJournal derives double-entry journal lines for a contract from its
// stored billing and ledger history: invoiced installments become invoice
// events on their billing date, paid installments additionally become cash
// events on their paid date, and posted revenue entries become revenue
// events on their entry date.
func (s *ReportService) ContractJournal(ctx context.Context, tctx shared.TenantContext, contractID uuid.UUID) (*ContractJournalResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "contract_journal")
	defer span.End()

	schedules, err := s.scheduleRepo.FindByContract(ctx, tctx.TenantID, contractID)
	if err != nil {
		return nil, err
	}
	entryType := revenue.EntryRevenue
	posted := true
	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tctx.TenantID, revenue.LedgerFilter{
		ContractID: &contractID,
		EntryType:  &entryType,
		Posted:     &posted,
	})
	if err != nil {
		return nil, err
	}

	events := buildJournalEvents(schedules, entries)
	lines, err := revenue.PostJournal(events)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &ContractJournalResponse{
		ContractID:   contractID,
		Lines:        make([]JournalLineResponse, len(lines)),
		TrialBalance: revenue.TrialBalance(lines),
	}
	for i, line := range lines {
		resp.Lines[i] = JournalLineResponse{
			DebitAccount:  line.DebitAccount,
			CreditAccount: line.CreditAccount,
			Amount:        line.Amount,
			EventKind:     string(line.EventKind),
			EventKey:      line.EventKey,
		}
	}
	resp.TotalDebits, resp.TotalCredits = revenue.JournalTotals(lines)
	return resp, nil
}

// buildJournalEvents translates stored billing and ledger rows into the
// dated event stream the journal derivation consumes
func buildJournalEvents(schedules []revenue.BillingSchedule, revenueEntries []revenue.LedgerEntry) []revenue.JournalEvent {
	var events []revenue.JournalEvent
	for i := range schedules {
		schedule := &schedules[i]
		switch schedule.Status {
		case revenue.ScheduleStatusInvoiced:
			events = append(events, revenue.JournalEvent{
				Kind:   revenue.JournalEventInvoice,
				Date:   schedule.BillingDate,
				Amount: schedule.Amount,
				Key:    schedule.ID.String(),
			})
		case revenue.ScheduleStatusPaid:
			events = append(events, revenue.JournalEvent{
				Kind:   revenue.JournalEventInvoice,
				Date:   schedule.BillingDate,
				Amount: schedule.Amount,
				Key:    schedule.ID.String(),
			})
			cashDate := schedule.DueDate
			if schedule.PaidDate != nil {
				cashDate = *schedule.PaidDate
			}
			events = append(events, revenue.JournalEvent{
				Kind:   revenue.JournalEventCash,
				Date:   cashDate,
				Amount: schedule.EffectivePaidAmount(),
				Key:    schedule.ID.String(),
			})
		}
	}
	for i := range revenueEntries {
		entry := &revenueEntries[i]
		events = append(events, revenue.JournalEvent{
			Kind:   revenue.JournalEventRevenue,
			Date:   entry.EntryDate,
			Amount: entry.Amount,
			Key:    entry.ID.String(),
		})
	}
	return events
}

// Reconciliation aggregates the tenant's ledger entries into per-account
// opening/debit/credit/closing rows. Opening balances are optional; entry
// types outside the closed enum count on the debit side.
func (s *ReportService) Reconciliation(ctx context.Context, tctx shared.TenantContext, opening map[string]decimal.Decimal) (*ReconciliationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "reconciliation")
	defer span.End()

	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tctx.TenantID, revenue.LedgerFilter{})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	openingBalances := make(map[revenue.EntryType]decimal.Decimal, len(opening))
	for raw, amount := range opening {
		openingBalances[revenue.NormalizeEntryType(raw)] = amount
	}

	rows := revenue.Reconcile(entries, openingBalances, revenue.NatureDebit)
	resp := &ReconciliationResponse{Accounts: make(map[string]revenue.ReconciliationRow, len(rows))}
	for entryType, row := range rows {
		resp.Accounts[entryType.String()] = row
	}
	return resp, nil
}
