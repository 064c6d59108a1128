package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/revrec/backend/internal/domain/revenue"
	"github.com/revrec/backend/internal/domain/shared/valueobject"
)

// ContractModel is the persistence model for the Contract aggregate root
type ContractModel struct {
	TenantAggregateModel
	ContractNumber   string                   `gorm:"type:varchar(50);not null;index"`
	Name             string                   `gorm:"type:varchar(200)"`
	CustomerID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerName     string                   `gorm:"type:varchar(200)"`
	TotalValue       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency         string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	Status           string                   `gorm:"type:varchar(20);not null;index"`
	CurrentVersionID *uuid.UUID               `gorm:"type:uuid"`
	StartDate        valueobject.CalendarDate `gorm:"type:date"`
	EndDate          valueobject.CalendarDate `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "revenue_contracts"
}

// ToDomain converts the persistence model to a domain Contract
func (m *ContractModel) ToDomain() *revenue.Contract {
	return &revenue.Contract{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ContractNumber:      m.ContractNumber,
		Name:                m.Name,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		TotalValue:          m.TotalValue,
		Currency:            valueobject.Currency(m.Currency),
		Status:              revenue.ContractStatus(m.Status),
		CurrentVersionID:    m.CurrentVersionID,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain Contract
func (m *ContractModel) FromDomain(c *revenue.Contract) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.ContractNumber = c.ContractNumber
	m.Name = c.Name
	m.CustomerID = c.CustomerID
	m.CustomerName = c.CustomerName
	m.TotalValue = c.TotalValue
	m.Currency = string(c.Currency)
	m.Status = string(c.Status)
	m.CurrentVersionID = c.CurrentVersionID
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
}

// ContractVersionModel is the persistence model for contract versions
type ContractVersionModel struct {
	BaseModel
	TenantID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	ContractID    uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_version_contract_number,priority:1"`
	VersionNumber int                      `gorm:"not null;uniqueIndex:idx_version_contract_number,priority:2"`
	EffectiveDate valueobject.CalendarDate `gorm:"type:date"`
	Description   string                   `gorm:"type:varchar(500)"`
	TotalValue    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ContractVersionModel) TableName() string {
	return "revenue_contract_versions"
}

// ToDomain converts the persistence model to a domain ContractVersion
func (m *ContractVersionModel) ToDomain() *revenue.ContractVersion {
	return &revenue.ContractVersion{
		BaseEntity:    m.ToBaseEntity(),
		TenantID:      m.TenantID,
		ContractID:    m.ContractID,
		VersionNumber: m.VersionNumber,
		EffectiveDate: m.EffectiveDate,
		Description:   m.Description,
		TotalValue:    m.TotalValue,
	}
}

// FromDomain populates the persistence model from a domain ContractVersion
func (m *ContractVersionModel) FromDomain(v *revenue.ContractVersion) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.TenantID = v.TenantID
	m.ContractID = v.ContractID
	m.VersionNumber = v.VersionNumber
	m.EffectiveDate = v.EffectiveDate
	m.Description = v.Description
	m.TotalValue = v.TotalValue
}

// PerformanceObligationModel is the persistence model for performance obligations
type PerformanceObligationModel struct {
	BaseModel
	TenantID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	ContractID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	VersionID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	Description       string                   `gorm:"type:varchar(500)"`
	AllocatedPrice    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	RecognitionMethod string                   `gorm:"type:varchar(20);not null"`
	MeasurementMethod string                   `gorm:"type:varchar(20)"`
	PercentComplete   decimal.Decimal          `gorm:"type:decimal(7,4);not null"`
	RecognizedAmount  decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	DeferredAmount    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Satisfied         bool                     `gorm:"not null;default:false"`
	StartDate         valueobject.CalendarDate `gorm:"type:date"`
	EndDate           valueobject.CalendarDate `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (PerformanceObligationModel) TableName() string {
	return "revenue_performance_obligations"
}

// ToDomain converts the persistence model to a domain PerformanceObligation
func (m *PerformanceObligationModel) ToDomain() *revenue.PerformanceObligation {
	return &revenue.PerformanceObligation{
		BaseEntity:        m.ToBaseEntity(),
		TenantID:          m.TenantID,
		ContractID:        m.ContractID,
		VersionID:         m.VersionID,
		Description:       m.Description,
		AllocatedPrice:    m.AllocatedPrice,
		RecognitionMethod: revenue.RecognitionMethod(m.RecognitionMethod),
		MeasurementMethod: revenue.MeasurementMethod(m.MeasurementMethod),
		PercentComplete:   m.PercentComplete,
		RecognizedAmount:  m.RecognizedAmount,
		DeferredAmount:    m.DeferredAmount,
		Satisfied:         m.Satisfied,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain PerformanceObligation
func (m *PerformanceObligationModel) FromDomain(po *revenue.PerformanceObligation) {
	m.FromDomainBaseEntity(po.BaseEntity)
	m.TenantID = po.TenantID
	m.ContractID = po.ContractID
	m.VersionID = po.VersionID
	m.Description = po.Description
	m.AllocatedPrice = po.AllocatedPrice
	m.RecognitionMethod = string(po.RecognitionMethod)
	m.MeasurementMethod = string(po.MeasurementMethod)
	m.PercentComplete = po.PercentComplete
	m.RecognizedAmount = po.RecognizedAmount
	m.DeferredAmount = po.DeferredAmount
	m.Satisfied = po.Satisfied
	m.StartDate = po.StartDate
	m.EndDate = po.EndDate
}

// BillingScheduleModel is the persistence model for billing schedules
type BillingScheduleModel struct {
	TenantAggregateModel
	ContractID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ObligationID  *uuid.UUID                `gorm:"type:uuid;index"`
	BillingDate   valueobject.CalendarDate  `gorm:"type:date;not null;index"`
	DueDate       valueobject.CalendarDate  `gorm:"type:date;not null"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Currency      string                    `gorm:"type:varchar(3);not null;default:'USD'"`
	Frequency     string                    `gorm:"type:varchar(20);not null"`
	Status        string                    `gorm:"type:varchar(20);not null;index"`
	InvoiceNumber string                    `gorm:"type:varchar(50)"`
	PaidAmount    *decimal.Decimal          `gorm:"type:decimal(18,4)"`
	PaidDate      *valueobject.CalendarDate `gorm:"type:date"`
	Notes         string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BillingScheduleModel) TableName() string {
	return "revenue_billing_schedules"
}

// ToDomain converts the persistence model to a domain BillingSchedule
func (m *BillingScheduleModel) ToDomain() *revenue.BillingSchedule {
	return &revenue.BillingSchedule{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ContractID:          m.ContractID,
		ObligationID:        m.ObligationID,
		BillingDate:         m.BillingDate,
		DueDate:             m.DueDate,
		Amount:              m.Amount,
		Currency:            valueobject.Currency(m.Currency),
		Frequency:           revenue.BillingFrequency(m.Frequency),
		Status:              revenue.ScheduleStatus(m.Status),
		InvoiceNumber:       m.InvoiceNumber,
		PaidAmount:          m.PaidAmount,
		PaidDate:            m.PaidDate,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain BillingSchedule
func (m *BillingScheduleModel) FromDomain(b *revenue.BillingSchedule) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.ContractID = b.ContractID
	m.ObligationID = b.ObligationID
	m.BillingDate = b.BillingDate
	m.DueDate = b.DueDate
	m.Amount = b.Amount
	m.Currency = string(b.Currency)
	m.Frequency = string(b.Frequency)
	m.Status = string(b.Status)
	m.InvoiceNumber = b.InvoiceNumber
	m.PaidAmount = b.PaidAmount
	m.PaidDate = b.PaidDate
	m.Notes = b.Notes
}

// LedgerEntryModel is the persistence model for revenue ledger entries
type LedgerEntryModel struct {
	TenantAggregateModel
	ContractID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	ObligationID     *uuid.UUID               `gorm:"type:uuid;index"`
	EntryType        string                   `gorm:"type:varchar(30);not null;index"`
	DebitAccount     string                   `gorm:"type:varchar(100);not null"`
	CreditAccount    string                   `gorm:"type:varchar(100);not null"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency         string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	FXRate           *decimal.Decimal         `gorm:"type:decimal(18,8)"`
	FunctionalAmount *decimal.Decimal         `gorm:"type:decimal(18,4)"`
	EntryDate        valueobject.CalendarDate `gorm:"type:date;not null;index"`
	PeriodStart      valueobject.CalendarDate `gorm:"type:date"`
	PeriodEnd        valueobject.CalendarDate `gorm:"type:date"`
	Description      string                   `gorm:"type:text"`
	IsPosted         bool                     `gorm:"not null;default:false;index"`
	PostedAt         *time.Time
	PostedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "revenue_ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *revenue.LedgerEntry {
	return &revenue.LedgerEntry{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ContractID:          m.ContractID,
		ObligationID:        m.ObligationID,
		EntryType:           revenue.EntryType(m.EntryType),
		DebitAccount:        m.DebitAccount,
		CreditAccount:       m.CreditAccount,
		Amount:              m.Amount,
		Currency:            valueobject.Currency(m.Currency),
		FXRate:              m.FXRate,
		FunctionalAmount:    m.FunctionalAmount,
		EntryDate:           m.EntryDate,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		Description:         m.Description,
		IsPosted:            m.IsPosted,
		PostedAt:            m.PostedAt,
		PostedBy:            m.PostedBy,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *revenue.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ContractID = e.ContractID
	m.ObligationID = e.ObligationID
	m.EntryType = string(e.EntryType)
	m.DebitAccount = e.DebitAccount
	m.CreditAccount = e.CreditAccount
	m.Amount = e.Amount
	m.Currency = string(e.Currency)
	m.FXRate = e.FXRate
	m.FunctionalAmount = e.FunctionalAmount
	m.EntryDate = e.EntryDate
	m.PeriodStart = e.PeriodStart
	m.PeriodEnd = e.PeriodEnd
	m.Description = e.Description
	m.IsPosted = e.IsPosted
	m.PostedAt = e.PostedAt
	m.PostedBy = e.PostedBy
}

// ConsolidatedBalanceModel is the persistence model for balance snapshots
type ConsolidatedBalanceModel struct {
	TenantAggregateModel
	PeriodDate               valueobject.CalendarDate `gorm:"type:date;not null;index"`
	PeriodType               string                   `gorm:"type:varchar(20);not null"`
	Currency                 string                   `gorm:"type:varchar(3);not null;default:'USD'"`
	TotalContractAssets      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalContractLiabilities decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalReceivables         decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalDeferredRevenue     decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalRecognizedRevenue   decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalBilledAmount        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalCashReceived        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ContractCount            int                      `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ConsolidatedBalanceModel) TableName() string {
	return "revenue_consolidated_balances"
}

// ToDomain converts the persistence model to a domain ConsolidatedBalance
func (m *ConsolidatedBalanceModel) ToDomain() *revenue.ConsolidatedBalance {
	return &revenue.ConsolidatedBalance{
		TenantAggregateRoot:      m.ToTenantAggregateRoot(),
		PeriodDate:               m.PeriodDate,
		PeriodType:               revenue.PeriodType(m.PeriodType),
		Currency:                 valueobject.Currency(m.Currency),
		TotalContractAssets:      m.TotalContractAssets,
		TotalContractLiabilities: m.TotalContractLiabilities,
		TotalReceivables:         m.TotalReceivables,
		TotalDeferredRevenue:     m.TotalDeferredRevenue,
		TotalRecognizedRevenue:   m.TotalRecognizedRevenue,
		TotalBilledAmount:        m.TotalBilledAmount,
		TotalCashReceived:        m.TotalCashReceived,
		ContractCount:            m.ContractCount,
	}
}

// FromDomain populates the persistence model from a domain ConsolidatedBalance
func (m *ConsolidatedBalanceModel) FromDomain(b *revenue.ConsolidatedBalance) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.PeriodDate = b.PeriodDate
	m.PeriodType = string(b.PeriodType)
	m.Currency = string(b.Currency)
	m.TotalContractAssets = b.TotalContractAssets
	m.TotalContractLiabilities = b.TotalContractLiabilities
	m.TotalReceivables = b.TotalReceivables
	m.TotalDeferredRevenue = b.TotalDeferredRevenue
	m.TotalRecognizedRevenue = b.TotalRecognizedRevenue
	m.TotalBilledAmount = b.TotalBilledAmount
	m.TotalCashReceived = b.TotalCashReceived
	m.ContractCount = b.ContractCount
}

// AllModels lists every persistence model for migration helpers
func AllModels() []interface{} {
	return []interface{}{
		&ContractModel{},
		&ContractVersionModel{},
		&PerformanceObligationModel{},
		&BillingScheduleModel{},
		&LedgerEntryModel{},
		&ConsolidatedBalanceModel{},
	}
}
