package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walletly/internal/middleware"
	"walletly/internal/service"
)

type WalletHandler struct {
	walletSvc *service.WalletService
}

func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// List returns the authenticated user's wallets, newest first.
func (h *WalletHandler) List(c *gin.Context) {
	wallets, err := h.walletSvc.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, wallets)
}

func (h *WalletHandler) Get(c *gin.Context) {
	w, err := h.walletSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if w.UID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "msg": "not your wallet"})
		return
	}
	ok(c, w)
}

// Create makes a new wallet with zeroed balance and totals. Multipart form:
// "name" plus an optional icon as "image" file or "image_url".
func (h *WalletHandler) Create(c *gin.Context) {
	src, cleanup, err := imageSource(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "could not read image"})
		return
	}
	defer cleanup()

	w, svcErr := h.walletSvc.CreateOrUpdate(c.Request.Context(), service.WalletInput{
		Name:  c.PostForm("name"),
		UID:   middleware.GetUserID(c),
		Image: src,
	})
	if svcErr != nil {
		fail(c, svcErr)
		return
	}
	ok(c, w)
}

// Update edits a wallet's name or icon; balance and totals are owned by the
// ledger and never writable here.
func (h *WalletHandler) Update(c *gin.Context) {
	if !h.owned(c, c.Param("id")) {
		return
	}
	src, cleanup, err := imageSource(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "could not read image"})
		return
	}
	defer cleanup()

	w, svcErr := h.walletSvc.CreateOrUpdate(c.Request.Context(), service.WalletInput{
		ID:    c.Param("id"),
		Name:  c.PostForm("name"),
		Image: src,
	})
	if svcErr != nil {
		fail(c, svcErr)
		return
	}
	ok(c, w)
}

// Delete removes the wallet and cascades its transactions in the background.
func (h *WalletHandler) Delete(c *gin.Context) {
	if !h.owned(c, c.Param("id")) {
		return
	}
	if err := h.walletSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	okMsg(c, "wallet deleted successfully")
}

func (h *WalletHandler) owned(c *gin.Context, walletID string) bool {
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
