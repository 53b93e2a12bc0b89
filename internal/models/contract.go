package models

import "github.com/shopspring/decimal"

// ClientStatus is the commercial state of a client
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientProspect ClientStatus = "prospect"
)

// Contract represents the recurring-payment terms of a client
type Contract struct {
	ClientID         string          `json:"client_id"`
	ClientName       string          `json:"client_name"`
	MonthlyValue     decimal.Decimal `json:"monthly_value"`
	RecurringPayment bool            `json:"recurring_payment"`
	Status           ClientStatus    `json:"status"`
	ContractStart    string          `json:"contract_start,omitempty"` // Format: YYYY-MM-DD
	ContractEnd      string          `json:"contract_end,omitempty"`   // empty means open-ended
}

// Projectable reports whether monthly obligations should be derived from the contract
func (c Contract) Projectable() bool {
	return c.RecurringPayment &&
		c.Status == ClientActive &&
		c.MonthlyValue.IsPositive() &&
		c.ContractStart != ""
}
