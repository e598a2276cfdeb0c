package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/logger"
	"gitlab.com/nmadb/contacts/internal/store"
	"go.uber.org/zap"
)

// respondError answers a request that failed in the store. name is the kind of record the
// request was about, e.g. "human". Errors that the client cannot fix are logged and answered
// with 500.
func respondError(c *gin.Context, err error, name string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": name + " not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, store.ErrNoChanges):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": store.ErrNoChanges.Error()})
	case errors.Is(err, store.ErrInvalidReference),
		errors.Is(err, store.ErrForeignMainAddress),
		errors.Is(err, store.ErrRequiredValue),
		errors.Is(err, store.ErrInvalidValue):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		logger.FromContext(c).Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
