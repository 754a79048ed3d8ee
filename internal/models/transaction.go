package models

import (
	"time"

	"github.com/shopspring/decimal"

	"walletly/internal/store"
)

// Transaction field names as stored in the transactions collection.
const (
	FieldType        = "type"
	FieldTxAmount    = "amount"
	FieldWalletID    = "walletId"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldTxImage     = "image"
	FieldDate        = "date"
	FieldTxUID       = "uid"
)

// Type tags a transaction as income or expense.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TotalField names the wallet aggregate this transaction type accrues to.
func (t Type) TotalField() string {
	if t == TypeIncome {
		return FieldTotalIncome
	}
	return FieldTotalExpenses
}

// BalanceDelta returns the signed effect of an amount of this type on a
// wallet balance: income adds, expense subtracts.
func (t Type) BalanceDelta(amount decimal.Decimal) decimal.Decimal {
	if t == TypeIncome {
		return amount
	}
	return amount.Neg()
}

// Transaction is a single income or expense event attributed to a wallet.
// WalletID is a back-reference; wallets never enumerate their transactions.
type Transaction struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	WalletID    string          `json:"walletId"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Date        time.Time       `json:"date"`
	UID         string          `json:"uid"`
}

// TransactionFromDocument decodes a transaction document.
func TransactionFromDocument(doc store.Document) Transaction {
	return Transaction{
		ID:          doc.ID,
		Type:        Type(stringAt(doc.Fields, FieldType)),
		Amount:      decimalAt(doc.Fields, FieldTxAmount),
		WalletID:    stringAt(doc.Fields, FieldWalletID),
		Category:    stringAt(doc.Fields, FieldCategory),
		Description: stringAt(doc.Fields, FieldDescription),
		Image:       stringAt(doc.Fields, FieldTxImage),
		Date:        timeAt(doc.Fields, FieldDate),
		UID:         stringAt(doc.Fields, FieldTxUID),
	}
}
