package service

import (
	"context"
	"errors"
	"log"
	"time"

	"walletly/internal/models"
	"walletly/internal/store"
	"walletly/pkg/cloudinary"
)

// WalletService owns wallet documents and their lifecycle, including the
// cascade that removes a deleted wallet's transactions.
type WalletService struct {
	store    store.Store
	cloud    cloudinary.Client
	pageSize int
}

func NewWalletService(st store.Store, cloud cloudinary.Client, cascadePageSize int) *WalletService {
	if cascadePageSize <= 0 {
		cascadePageSize = 100
	}
	return &WalletService{store: st, cloud: cloud, pageSize: cascadePageSize}
}

// WalletInput is the partial record accepted by CreateOrUpdate. A non-empty
// ID means an edit; otherwise a new wallet is created with zeroed balance
// and totals.
type WalletInput struct {
	ID    string
	Name  string
	UID   string
	Image cloudinary.Source
}

// CreateOrUpdate persists a wallet as a merge write, uploading the icon
// first when one was supplied as a local file.
func (s *WalletService) CreateOrUpdate(ctx context.Context, in WalletInput) (*models.Wallet, error) {
	if in.ID == "" && in.Name == "" {
		return nil, validationErr("wallet name is required")
	}

	image := ""
	if !in.Image.Empty() {
		url, err := s.cloud.Upload(ctx, in.Image, "wallets")
		if err != nil {
			return nil, uploadErr("failed to upload wallet icon", err)
		}
		image = url
	}

	fields := map[string]any{}
	if in.Name != "" {
		fields[models.FieldWalletName] = in.Name
	}
	if in.UID != "" {
		fields[models.FieldWalletUID] = in.UID
	}
	if image != "" {
		fields[models.FieldWalletImage] = image
	}
	if in.ID == "" {
		fields[models.FieldAmount] = float64(0)
		fields[models.FieldTotalIncome] = float64(0)
		fields[models.FieldTotalExpenses] = float64(0)
		fields[models.FieldCreated] = time.Now()
	}

	id, err := s.store.Set(ctx, store.Wallets, in.ID, fields)
	if err != nil {
		return nil, storeErr("failed to save wallet", err)
	}

	doc, err := s.store.Get(ctx, store.Wallets, id)
	if err != nil {
		return nil, storeErr("failed to load wallet", err)
	}
	w := models.WalletFromDocument(doc)
	return &w, nil
}

// Get fetches one wallet.
func (s *WalletService) Get(ctx context.Context, id string) (*models.Wallet, error) {
	doc, err := s.store.Get(ctx, store.Wallets, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("wallet not found")
	}
	if err != nil {
		return nil, storeErr("failed to load wallet", err)
	}
	w := models.WalletFromDocument(doc)
	return &w, nil
}

// ListByUser returns the user's wallets, newest first.
func (s *WalletService) ListByUser(ctx context.Context, uid string) ([]models.Wallet, error) {
	docs, err := s.store.Query(ctx, store.Wallets, store.Query{
		Filters: []store.Filter{{Field: models.FieldWalletUID, Value: uid}},
		OrderBy: models.FieldCreated,
		Desc:    true,
	})
	if err != nil {
		return nil, storeErr("failed to load wallets", err)
	}
	wallets := make([]models.Wallet, 0, len(docs))
	for _, doc := range docs {
		wallets = append(wallets, models.WalletFromDocument(doc))
	}
	return wallets, nil
}

// Delete removes the wallet document and kicks off the transaction cascade
// in the background. The wallet itself is gone either way; a failed cascade
// leaves orphaned transactions behind and is only logged.
func (s *WalletService) Delete(ctx context.Context, walletID string) error {
	if err := s.store.Delete(ctx, store.Wallets, walletID); err != nil {
		return storeErr("failed to delete wallet", err)
	}

	go func() {
		if err := s.DeleteWalletTransactions(context.Background(), walletID); err != nil {
			log.Printf("[cascade] incomplete for wallet %s: %v", walletID, err)
		}
	}()

	return nil
}

// DeleteWalletTransactions removes every transaction referencing the wallet,
// one bounded page at a time. Each page is deleted atomically; the loop ends
// when a query comes back empty. No wallet compensation happens here, the
// wallet is already gone.
func (s *WalletService) DeleteWalletTransactions(ctx context.Context, walletID string) error {
	for {
		docs, err := s.store.Query(ctx, store.Transactions, store.Query{
			Filters: []store.Filter{{Field: models.FieldWalletID, Value: walletID}},
			Limit:   s.pageSize,
		})
		if err != nil {
			return storeErr("failed to load transactions", err)
		}
		if len(docs) == 0 {
			return nil
		}

		ids := make([]string, 0, len(docs))
		for _, doc := range docs {
			ids = append(ids, doc.ID)
		}
		if err := s.store.BatchDelete(ctx, store.Transactions, ids); err != nil {
			return storeErr("failed to delete transactions", err)
		}
		log.Printf("[cascade] deleted %d transactions for wallet %s", len(ids), walletID)
	}
}
