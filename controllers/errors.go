package controllers

import (
	"errors"
	"net/http"

	"weddingshop/pkg/resp"
	"weddingshop/services"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrWrongPassword, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrAccountSuspended, http.StatusForbidden},

	{services.ErrCustomerNotFound, http.StatusNotFound},
	{services.ErrCategoryNotFound, http.StatusNotFound},
	{services.ErrProductNotFound, http.StatusNotFound},
	{services.ErrOrderNotFound, http.StatusNotFound},
	{services.ErrPromotionNotFound, http.StatusNotFound},

	{services.ErrReviewExists, http.StatusConflict},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrCategoryTaken, http.StatusConflict},
	{services.ErrPromotionCodeTaken, http.StatusConflict},
	{services.ErrPromotionUsed, http.StatusConflict},
	{services.ErrAlreadySaved, http.StatusConflict},

	{services.ErrOrderNotCompleted, http.StatusUnprocessableEntity},
	{services.ErrProductNotInOrder, http.StatusUnprocessableEntity},
	{services.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{services.ErrPromotionExpired, http.StatusUnprocessableEntity},
	{services.ErrPromotionUnavailable, http.StatusUnprocessableEntity},
}

// writeError maps a service error onto the failure envelope.
func writeError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			resp.Fail(c, e.status, err.Error())
			return
		}
	}
	resp.ServerError(c, err)
}
