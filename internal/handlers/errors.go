package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/service"
)

// httpStatus maps service/repo sentinel errors onto HTTP statuses so
// every handler fails the same way.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyCancelled),
		errors.Is(err, repository.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrCampaignNotSendable):
		return http.StatusConflict
	case errors.Is(err, service.ErrClassNotBookable),
		errors.Is(err, service.ErrTooLateToCancel),
		errors.Is(err, repository.ErrNotConfirmed),
		errors.Is(err, service.ErrNoRecipient):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"error": err.Error()})
}
