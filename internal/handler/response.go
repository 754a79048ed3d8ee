package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walletly/internal/service"
)

// ok writes the success envelope the mobile client expects.
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func okMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": msg})
}

// fail translates a service error kind into a status code and surfaces the
// precondition that was violated, not a generic failure.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation, service.KindInsufficientBalance:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindUpload:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"success": false, "msg": service.MessageOf(err)})
}
