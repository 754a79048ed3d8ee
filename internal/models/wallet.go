package models

import (
	"time"

	"github.com/shopspring/decimal"

	"walletly/internal/store"
)

// Wallet field names as stored in the wallets collection.
const (
	FieldWalletName    = "name"
	FieldWalletUID     = "uid"
	FieldAmount        = "amount"
	FieldTotalIncome   = "totalIncome"
	FieldTotalExpenses = "totalExpenses"
	FieldWalletImage   = "image"
	FieldCreated       = "created"
)

// Wallet is one named money container. Amount tracks the current balance;
// TotalIncome and TotalExpenses accumulate every transaction ever applied,
// so amount == totalIncome - totalExpenses whenever no write is in flight.
type Wallet struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	UID           string          `json:"uid"`
	Amount        decimal.Decimal `json:"amount"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Image         string          `json:"image,omitempty"`
	Created       time.Time       `json:"created"`
}

// Total returns the lifetime aggregate for the given transaction type.
func (w Wallet) Total(t Type) decimal.Decimal {
	if t == TypeIncome {
		return w.TotalIncome
	}
	return w.TotalExpenses
}

// WalletFromDocument decodes a wallet document.
func WalletFromDocument(doc store.Document) Wallet {
	return Wallet{
		ID:            doc.ID,
		Name:          stringAt(doc.Fields, FieldWalletName),
		UID:           stringAt(doc.Fields, FieldWalletUID),
		Amount:        decimalAt(doc.Fields, FieldAmount),
		TotalIncome:   decimalAt(doc.Fields, FieldTotalIncome),
		TotalExpenses: decimalAt(doc.Fields, FieldTotalExpenses),
		Image:         stringAt(doc.Fields, FieldWalletImage),
		Created:       timeAt(doc.Fields, FieldCreated),
	}
}
