package server

import (
	"github.com/gin-gonic/gin"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
	"github.com/lexperience/backend/pkg/db/pagination"
)

func (s *Server) ListRegistrations(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrationSvc.List(c.Request.Context(), regdomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}
