package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
)

type addOnPaymentRequest struct {
	Email     string `json:"email"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

func (s *Server) RecordAddOnPayment(c *gin.Context) {
	var req addOnPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrationSvc.RecordAddOn(c.Request.Context(), regdomain.RecordAddOnRequest{
		Email:     strings.TrimSpace(req.Email),
		Reference: strings.TrimSpace(req.Reference),
		Amount:    req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}
