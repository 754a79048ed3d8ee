package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walletly/pkg/cloudinary"
)

// UploadHandler lets the client push an image ahead of time and reference
// it later by URL, so retried form submissions never re-upload.
type UploadHandler struct {
	cloud cloudinary.Client
}

func NewUploadHandler(cloud cloudinary.Client) *UploadHandler {
	return &UploadHandler{cloud: cloud}
}

var uploadFolders = map[string]bool{
	"transactions": true,
	"wallets":      true,
	"users":        true,
}

func (h *UploadHandler) Upload(c *gin.Context) {
	folder := c.DefaultPostForm("folder", "transactions")
	if !uploadFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "unknown folder"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "could not read file"})
		return
	}
	defer f.Close()

	url, err := h.cloud.Upload(c.Request.Context(), cloudinary.Source{File: f}, folder)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "msg": "upload failed"})
		return
	}
	ok(c, gin.H{"url": url})
}
