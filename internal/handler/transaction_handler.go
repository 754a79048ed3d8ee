package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"walletly/internal/middleware"
	"walletly/internal/models"
	"walletly/internal/service"
)

type TransactionHandler struct {
	txnSvc    *service.TransactionService
	walletSvc *service.WalletService
}

func NewTransactionHandler(txnSvc *service.TransactionService, walletSvc *service.WalletService) *TransactionHandler {
	return &TransactionHandler{txnSvc: txnSvc, walletSvc: walletSvc}
}

// List returns the authenticated user's recent transactions, or a single
// wallet's when ?walletId= is given.
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.GetUserID(c)

	if walletID := c.Query("walletId"); walletID != "" {
		if !h.walletOwned(c, walletID) {
			return
		}
		txns, err := h.txnSvc.ListByWallet(ctx, walletID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, txns)
		return
	}

	txns, err := h.txnSvc.ListByUser(ctx, uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, txns)
}

// Create records a new income or expense. Multipart form: "type", "amount",
// "walletId", optional "category", "description", "date" (RFC 3339), and a
// receipt as "image" file or "image_url".
func (h *TransactionHandler) Create(c *gin.Context) {
	h.upsert(c, "")
}

// Update edits an existing transaction through the same ledger entry point;
// the engine decides whether wallets need compensating.
func (h *TransactionHandler) Update(c *gin.Context) {
	h.upsert(c, c.Param("id"))
}

func (h *TransactionHandler) upsert(c *gin.Context, id string) {
	if id != "" && !h.txnOwned(c, id) {
		return
	}
	if walletID := c.PostForm("walletId"); walletID != "" && !h.walletOwned(c, walletID) {
		return
	}
	src, cleanup, err := imageSource(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "could not read image"})
		return
	}
	defer cleanup()

	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "invalid transaction data"})
		return
	}

	var date time.Time
	if v := c.PostForm("date"); v != "" {
		date, err = time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "invalid date"})
			return
		}
	}

	txn, svcErr := h.txnSvc.CreateOrUpdate(c.Request.Context(), service.TransactionInput{
		ID:          id,
		Type:        models.Type(c.PostForm("type")),
		Amount:      amount,
		WalletID:    c.PostForm("walletId"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Image:       src,
		Date:        date,
		UID:         middleware.GetUserID(c),
	})
	if svcErr != nil {
		fail(c, svcErr)
		return
	}
	ok(c, txn)
}

// Delete removes a transaction; the owning wallet id rides along as
// ?walletId= so the engine can compensate it.
func (h *TransactionHandler) Delete(c *gin.Context) {
	walletID := c.Query("walletId")
	if walletID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "walletId is required"})
		return
	}
	if !h.txnOwned(c, c.Param("id")) || !h.walletOwned(c, walletID) {
		return
	}
	if err := h.txnSvc.Delete(c.Request.Context(), c.Param("id"), walletID); err != nil {
		fail(c, err)
		return
	}
	okMsg(c, "transaction deleted successfully")
}

func (h *TransactionHandler) txnOwned(c *gin.Context, id string) bool {
	txn, err := h.txnSvc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return false
	}
	if txn.UID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "msg": "not your transaction"})
		return false
	}
	return true
}

func (h *TransactionHandler) walletOwned(c *gin.Context, walletID string) bool {
	w, err := h.walletSvc.Get(c.Request.Context(), walletID)
	if err != nil {
		fail(c, err)
		return false
	}
	if w.UID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "msg": "not your wallet"})
		return false
	}
	return true
}
