package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"walletly/internal/models"
	"walletly/internal/store"
	"walletly/pkg/cloudinary"
)

const msgInsufficientBalance = "selected wallet does not have enough balance"

// TransactionService is the ledger engine: it orchestrates every transaction
// write against the owning wallet so that the wallet's balance and lifetime
// totals stay consistent with its transaction history.
//
// The store offers no multi-document transaction across a wallet and a
// transaction write, so correctness rests on balance pre-checks before any
// wallet commit, and on ordering: the compensating wallet update always
// lands before the transaction document write or delete.
type TransactionService struct {
	store     store.Store
	cloud     cloudinary.Client
	listLimit int
}

func NewTransactionService(st store.Store, cloud cloudinary.Client, listLimit int) *TransactionService {
	if listLimit <= 0 {
		listLimit = 30
	}
	return &TransactionService{store: st, cloud: cloud, listLimit: listLimit}
}

// TransactionInput is the partial record accepted by CreateOrUpdate. A
// non-empty ID means an edit of an existing transaction.
type TransactionInput struct {
	ID          string
	Type        models.Type
	Amount      decimal.Decimal
	WalletID    string
	Category    string
	Description string
	Image       cloudinary.Source
	Date        time.Time
	UID         string
}

// CreateOrUpdate is the single entry point for transaction writes.
//
// On creation the transaction's impact is applied to the wallet once. On
// edit, if the financial shape changed (type, amount, or wallet), the prior
// impact is reverted from the prior wallet before the new one is applied; a
// shape-preserving edit (category, description) touches no wallet. The
// receipt image, if any, is resolved through the upload client before the
// transaction document is persisted as a merge write.
func (s *TransactionService) CreateOrUpdate(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	if in.Amount.Sign() <= 0 || in.WalletID == "" || !in.Type.Valid() {
		return nil, validationErr("invalid transaction data")
	}

	var old models.Transaction
	if in.ID != "" {
		doc, err := s.store.Get(ctx, store.Transactions, in.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundErr("transaction not found")
		}
		if err != nil {
			return nil, storeErr("failed to load transaction", err)
		}
		old = models.TransactionFromDocument(doc)

		shouldRevert := old.Type != in.Type ||
			!old.Amount.Equal(in.Amount) ||
			old.WalletID != in.WalletID
		if shouldRevert {
			if err := s.revertThenApply(ctx, old, in.Amount, in.Type, in.WalletID); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.applyNewImpact(ctx, in.WalletID, in.Amount, in.Type); err != nil {
			return nil, err
		}
	}

	image := ""
	if !in.Image.Empty() {
		url, err := s.cloud.Upload(ctx, in.Image, "transactions")
		if err != nil {
			// The wallet update above has already committed; the caller must
			// retry the whole operation. Logged apart from validation noise.
			log.Printf("[ledger] receipt upload failed after wallet update (wallet %s): %v", in.WalletID, err)
			return nil, uploadErr("failed to upload receipt", err)
		}
		image = url
	}

	if in.ID == "" {
		if in.Date.IsZero() {
			in.Date = time.Now()
		}
	} else {
		// Merge write: fields the caller left unset keep their stored values.
		if in.Category == "" {
			in.Category = old.Category
		}
		if in.Description == "" {
			in.Description = old.Description
		}
		if in.Date.IsZero() {
			in.Date = old.Date
		}
		if in.UID == "" {
			in.UID = old.UID
		}
		if image == "" {
			image = old.Image
		}
	}
	fields := map[string]any{
		models.FieldType:        string(in.Type),
		models.FieldTxAmount:    models.Number(in.Amount),
		models.FieldWalletID:    in.WalletID,
		models.FieldCategory:    in.Category,
		models.FieldDescription: in.Description,
		models.FieldDate:        in.Date,
	}
	if image != "" {
		fields[models.FieldTxImage] = image
	}
	if in.UID != "" {
		fields[models.FieldTxUID] = in.UID
	}

	id, err := s.store.Set(ctx, store.Transactions, in.ID, fields)
	if err != nil {
		log.Printf("[ledger] transaction write failed after wallet update (wallet %s): %v", in.WalletID, err)
		return nil, storeErr("failed to save transaction", err)
	}

	saved := models.Transaction{
		ID:          id,
		Type:        in.Type,
		Amount:      in.Amount,
		WalletID:    in.WalletID,
		Category:    in.Category,
		Description: in.Description,
		Image:       image,
		Date:        in.Date,
		UID:         in.UID,
	}
	return &saved, nil
}

// applyNewImpact commits a transaction's effect to its wallet: income adds
// to the balance and totalIncome, expense subtracts from the balance and
// adds to totalExpenses. An expense the balance cannot cover is rejected
// before anything is written.
func (s *TransactionService) applyNewImpact(ctx context.Context, walletID string, amount decimal.Decimal, t models.Type) error {
	w, err := s.loadWallet(ctx, walletID)
	if err != nil {
		return err
	}

	if t == models.TypeExpense && w.Amount.Sub(amount).IsNegative() {
		return insufficientErr(msgInsufficientBalance)
	}

	newAmount := w.Amount.Add(t.BalanceDelta(amount))
	newTotal := w.Total(t).Add(amount)

	err = s.store.Update(ctx, store.Wallets, walletID, map[string]any{
		models.FieldAmount: models.Number(newAmount),
		t.TotalField():     models.Number(newTotal),
	})
	if err != nil {
		return storeErr("failed to update wallet", err)
	}
	return nil
}

// revertThenApply handles an edit that changed the transaction's financial
// shape: remove the old impact from the old wallet, then apply the new
// impact to the (possibly different) new wallet, as two sequential partial
// updates. Affordability of the new expense is verified before the reversal
// commits, so a rejection leaves both wallets untouched.
func (s *TransactionService) revertThenApply(ctx context.Context, old models.Transaction, newAmount decimal.Decimal, newType models.Type, newWalletID string) error {
	origWallet, err := s.loadWallet(ctx, old.WalletID)
	if err != nil {
		return err
	}

	// Wallet state as if the old transaction had never happened.
	revertedBalance := origWallet.Amount.Sub(old.Type.BalanceDelta(old.Amount))
	revertedTotal := origWallet.Total(old.Type).Sub(old.Amount)

	sameWallet := old.WalletID == newWalletID
	if !sameWallet {
		target, err := s.loadWallet(ctx, newWalletID)
		if err != nil {
			return err
		}
		if newType == models.TypeExpense && target.Amount.LessThan(newAmount) {
			return insufficientErr(msgInsufficientBalance)
		}
	} else if newType == models.TypeExpense && revertedBalance.LessThan(newAmount) {
		return insufficientErr(msgInsufficientBalance)
	}

	err = s.store.Update(ctx, store.Wallets, old.WalletID, map[string]any{
		models.FieldAmount:    models.Number(revertedBalance),
		old.Type.TotalField(): models.Number(revertedTotal),
	})
	if err != nil {
		return storeErr("failed to update wallet", err)
	}

	// Re-read: when the wallets are the same this picks up the reversal
	// that just committed.
	target, err := s.loadWallet(ctx, newWalletID)
	if err != nil {
		return err
	}

	updatedBalance := target.Amount.Add(newType.BalanceDelta(newAmount))
	updatedTotal := target.Total(newType).Add(newAmount)

	err = s.store.Update(ctx, store.Wallets, newWalletID, map[string]any{
		models.FieldAmount:   models.Number(updatedBalance),
		newType.TotalField(): models.Number(updatedTotal),
	})
	if err != nil {
		log.Printf("[ledger] apply failed after revert committed (old wallet %s, new wallet %s): %v", old.WalletID, newWalletID, err)
		return storeErr("failed to update wallet", err)
	}
	return nil
}

// Delete removes a transaction and compensates its wallet as if the
// transaction had never existed. Reversing an expense is refused when it
// would expose a logically negative balance, which happens when the funds
// it returned have already been spent elsewhere.
func (s *TransactionService) Delete(ctx context.Context, transactionID, walletID string) error {
	doc, err := s.store.Get(ctx, store.Transactions, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundErr("transaction not found")
	}
	if err != nil {
		return storeErr("failed to load transaction", err)
	}
	txn := models.TransactionFromDocument(doc)

	w, err := s.loadWallet(ctx, walletID)
	if err != nil {
		return err
	}

	newAmount := w.Amount.Sub(txn.Type.BalanceDelta(txn.Amount))
	newTotal := w.Total(txn.Type).Sub(txn.Amount)

	if txn.Type == models.TypeExpense && newAmount.IsNegative() {
		return insufficientErr("cannot delete this transaction")
	}

	err = s.store.Update(ctx, store.Wallets, walletID, map[string]any{
		models.FieldAmount:    models.Number(newAmount),
		txn.Type.TotalField(): models.Number(newTotal),
	})
	if err != nil {
		return storeErr("failed to update wallet", err)
	}

	// Wallet first, then the document: a crash here leaves an over-corrected
	// wallet rather than an unaccounted-for transaction.
	if err := s.store.Delete(ctx, store.Transactions, transactionID); err != nil {
		log.Printf("[ledger] transaction delete failed after wallet update (wallet %s, transaction %s): %v", walletID, transactionID, err)
		return storeErr("failed to delete transaction", err)
	}
	return nil
}

// Get fetches one transaction.
func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	doc, err := s.store.Get(ctx, store.Transactions, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("transaction not found")
	}
	if err != nil {
		return nil, storeErr("failed to load transaction", err)
	}
	txn := models.TransactionFromDocument(doc)
	return &txn, nil
}

// ListByUser returns the user's most recent transactions, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, uid string) ([]models.Transaction, error) {
	return s.list(ctx, store.Query{
		Filters: []store.Filter{{Field: models.FieldTxUID, Value: uid}},
		OrderBy: models.FieldDate,
		Desc:    true,
		Limit:   s.listLimit,
	})
}

// ListByWallet returns a wallet's transactions, newest first.
func (s *TransactionService) ListByWallet(ctx context.Context, walletID string) ([]models.Transaction, error) {
	return s.list(ctx, store.Query{
		Filters: []store.Filter{{Field: models.FieldWalletID, Value: walletID}},
		OrderBy: models.FieldDate,
		Desc:    true,
		Limit:   s.listLimit,
	})
}

func (s *TransactionService) list(ctx context.Context, q store.Query) ([]models.Transaction, error) {
	docs, err := s.store.Query(ctx, store.Transactions, q)
	if err != nil {
		return nil, storeErr("failed to load transactions", err)
	}
	txns := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		txns = append(txns, models.TransactionFromDocument(doc))
	}
	return txns, nil
}

func (s *TransactionService) loadWallet(ctx context.Context, id string) (models.Wallet, error) {
	doc, err := s.store.Get(ctx, store.Wallets, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Wallet{}, notFoundErr("wallet not found")
	}
	if err != nil {
		return models.Wallet{}, storeErr("failed to load wallet", err)
	}
	return models.WalletFromDocument(doc), nil
}
