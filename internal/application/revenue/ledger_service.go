package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
)

// LedgerService creates and posts revenue ledger entries. Posting is a
// monotonic one-way transition backed by a conditional write, so repeated or
// racing post calls finalize an entry exactly once.
type LedgerService struct {
	ledgerRepo revenue.LedgerEntryRepository
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo revenue.LedgerEntryRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, now: time.Now}
}

// ===================== Request / Response DTOs =====================

// CreateEntryRequest carries the inputs for creating an unposted ledger
// entry. EntryType accepts any spelling the normalizer recognizes; account
// labels default per entry type when omitted.
type CreateEntryRequest struct {
	ContractID    uuid.UUID        `json:"contract_id" binding:"required"`
	ObligationID  *uuid.UUID       `json:"obligation_id,omitempty"`
	EntryType     string           `json:"entry_type"`
	DebitAccount  string           `json:"debit_account,omitempty"`
	CreditAccount string           `json:"credit_account,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency,omitempty"`
	FXRate        *decimal.Decimal `json:"fx_rate,omitempty"`
	EntryDate     interface{}      `json:"entry_date"`
	PeriodStart   interface{}      `json:"period_start,omitempty"`
	PeriodEnd     interface{}      `json:"period_end,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID               uuid.UUID                `json:"id"`
	TenantID         uuid.UUID                `json:"tenant_id"`
	ContractID       uuid.UUID                `json:"contract_id"`
	ObligationID     *uuid.UUID               `json:"obligation_id,omitempty"`
	EntryType        string                   `json:"entry_type"`
	DebitAccount     string                   `json:"debit_account"`
	CreditAccount    string                   `json:"credit_account"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         string                   `json:"currency"`
	FXRate           *decimal.Decimal         `json:"fx_rate,omitempty"`
	FunctionalAmount *decimal.Decimal         `json:"functional_amount,omitempty"`
	EntryDate        valueobject.CalendarDate `json:"entry_date"`
	PeriodStart      valueobject.CalendarDate `json:"period_start,omitempty"`
	PeriodEnd        valueobject.CalendarDate `json:"period_end,omitempty"`
	Description      string                   `json:"description,omitempty"`
	IsPosted         bool                     `json:"is_posted"`
	PostedAt         *time.Time               `json:"posted_at,omitempty"`
	PostedBy         *uuid.UUID               `json:"posted_by,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// LedgerListFilter defines filtering options for ledger entry list queries
type LedgerListFilter struct {
	ContractID *uuid.UUID `form:"contract_id"`
	EntryType  string     `form:"entry_type"`
	Posted     *bool      `form:"posted"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// PostAllResult reports the outcome of a batch posting run. Posted counts the
// entries this run finalized; when Err is set, the entry named by FailedID
// stayed unposted and entries after it were not attempted.
type PostAllResult struct {
	Posted   int        `json:"posted"`
	FailedID *uuid.UUID `json:"failed_id,omitempty"`
}

// ===================== Operations =====================

// CreateEntry persists a new unposted ledger entry
func (s *LedgerService) CreateEntry(ctx context.Context, tctx shared.TenantContext, req CreateEntryRequest) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "create_entry")
	defer span.End()

	if !tctx.Valid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant is required")
	}

	entryDate, err := valueobject.ParseCalendarDate(req.EntryDate)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	periodStart, err := valueobject.ParseCalendarDate(req.PeriodStart)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}
	periodEnd, err := valueobject.ParseCalendarDate(req.PeriodEnd)
	if err != nil {
		return nil, revenue.NewInvalidDateError(err.Error())
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	entry, err := revenue.NewLedgerEntry(
		tctx.TenantID, req.ContractID, req.ObligationID,
		revenue.NormalizeEntryType(req.EntryType),
		req.DebitAccount, req.CreditAccount,
		req.Amount,
		currency,
		entryDate, periodStart, periodEnd,
		req.Description,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.FXRate != nil {
		if err := entry.WithFX(*req.FXRate); err != nil {
			return nil, err
		}
	}
	if actor := tctx.Actor(); actor != nil {
		entry.SetCreatedBy(*actor)
	}

	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// GetEntry gets a ledger entry by ID
func (s *LedgerService) GetEntry(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, revenue.ErrEntryNotFound
	}
	return toEntryResponse(entry), nil
}

// ListEntries lists ledger entries with filtering
func (s *LedgerService) ListEntries(ctx context.Context, tctx shared.TenantContext, filter LedgerListFilter) ([]LedgerEntryResponse, error) {
	domainFilter := revenue.LedgerFilter{
		ContractID: filter.ContractID,
		Posted:     filter.Posted,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.EntryType != "" {
		entryType := revenue.NormalizeEntryType(filter.EntryType)
		domainFilter.EntryType = &entryType
	}

	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tctx.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toEntryResponse(&entries[i])
	}
	return responses, nil
}

// Post finalizes a ledger entry. Posting an already posted entry is a no-op
// that returns the existing posted state unchanged.
func (s *LedgerService) Post(ctx context.Context, tctx shared.TenantContext, id uuid.UUID) (*LedgerEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "post")
	defer span.End()

	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, revenue.ErrEntryNotFound
	}
	if entry.IsPosted {
		return toEntryResponse(entry), nil
	}

	won, err := s.ledgerRepo.MarkPosted(ctx, tctx.TenantID, id, s.now(), tctx.Actor())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !won {
		// A concurrent call posted the entry first. Return the stored state.
		entry, err = s.ledgerRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, revenue.ErrEntryNotFound
		}
		return toEntryResponse(entry), nil
	}

	entry, err = s.ledgerRepo.FindByIDForTenant(ctx, tctx.TenantID, id)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// PostAll posts every unposted entry of the tenant. Each entry is posted at
// most once; on the first failure the run stops, leaving that entry unposted
// and entries posted earlier in the run posted.
func (s *LedgerService) PostAll(ctx context.Context, tctx shared.TenantContext) (PostAllResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "post_all")
	defer span.End()

	unposted, err := s.ledgerRepo.ListUnposted(ctx, tctx.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return PostAllResult{}, err
	}

	result := PostAllResult{}
	postedAt := s.now()
	actor := tctx.Actor()
	for i := range unposted {
		entry := &unposted[i]
		won, err := s.ledgerRepo.MarkPosted(ctx, tctx.TenantID, entry.ID, postedAt, actor)
		if err != nil {
			id := entry.ID
			result.FailedID = &id
			telemetry.RecordError(span, err)
			return result, err
		}
		if won {
			result.Posted++
		}
	}
	return result, nil
}

func toEntryResponse(e *revenue.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:               e.ID,
		TenantID:         e.TenantID,
		ContractID:       e.ContractID,
		ObligationID:     e.ObligationID,
		EntryType:        e.EntryType.String(),
		DebitAccount:     e.DebitAccount,
		CreditAccount:    e.CreditAccount,
		Amount:           e.Amount,
		Currency:         string(e.Currency),
		FXRate:           e.FXRate,
		FunctionalAmount: e.FunctionalAmount,
		EntryDate:        e.EntryDate,
		PeriodStart:      e.PeriodStart,
		PeriodEnd:        e.PeriodEnd,
		Description:      e.Description,
		IsPosted:         e.IsPosted,
		PostedAt:         e.PostedAt,
		PostedBy:         e.PostedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
