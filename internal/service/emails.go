package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/logger"
	"go.uber.org/zap"
)

// consumeEmail hands out the email whose ID value matches the id parameter of the request URL
// for sending a message, and records the current time as its last use.
//
// Example REST API call:
//
//	> curl http://localhost:8080/emails/7/consume --request "POST"
func consumeEmail(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	email, err := contacts.ConsumeEmail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, admin.Emails.Name)
		return
	}
	serviceMetrics.IncrementEmailsConsumed()
	logger.FromContext(c).Debug("email consumed", zap.Int64("email_id", email.Id))
	c.IndentedJSON(http.StatusOK, email)
}
