package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
)

const maxDocumentSize = 10 << 20 // 10 MiB

type registerRequest struct {
	Name             string `json:"name" form:"name"`
	Email            string `json:"email" form:"email"`
	Affiliation      string `json:"affiliation" form:"affiliation"`
	Interest         string `json:"interest" form:"interest"`
	PaymentReference string `json:"paymentReference" form:"paymentReference"`
	Amount           int64  `json:"amount" form:"amount"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	fileName, content, err := readDocument(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.registrationSvc.Submit(c.Request.Context(), regdomain.SubmitRequest{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Affiliation:       strings.TrimSpace(req.Affiliation),
		Interest:          strings.TrimSpace(req.Interest),
		PaymentReference:  strings.TrimSpace(req.PaymentReference),
		Amount:            req.Amount,
		IDDocumentName:    fileName,
		IDDocumentContent: content,
	})
	if errors.Is(err, regdomain.ErrPaidDowngrade) {
		// The stored record is returned unchanged alongside the conflict.
		c.JSON(http.StatusConflict, response{
			Success: false,
			Message: err.Error(),
			Data:    resp,
		})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}

// readDocument extracts the uploaded ID document from a multipart
// submission. JSON submissions carry no file.
func readDocument(c *gin.Context) (string, []byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", nil, nil
	}

	fileHeader, err := c.FormFile("idDocument")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, ErrInvalidRequest
	}
	if fileHeader.Size > maxDocumentSize {
		return "", nil, ErrInvalidRequest
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(content)) > maxDocumentSize {
		return "", nil, ErrInvalidRequest
	}

	return fileHeader.Filename, content, nil
}

type confirmPaymentRequest struct {
	Email     string `json:"email"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (s *Server) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrationSvc.ConfirmPayment(c.Request.Context(), regdomain.ConfirmPaymentRequest{
		Email:     strings.TrimSpace(req.Email),
		Reference: strings.TrimSpace(req.Reference),
		Status:    strings.TrimSpace(req.Status),
	})
	if errors.Is(err, regdomain.ErrPaidDowngrade) {
		c.JSON(http.StatusConflict, response{
			Success: false,
			Message: err.Error(),
			Data:    resp,
		})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}

func (s *Server) GetRegistration(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	resp, err := s.registrationSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}

func (s *Server) GetFile(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	reg, err := s.registrationSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !reg.HasDocument() {
		AbortWithError(c, ErrNotFound)
		return
	}

	ok(c, gin.H{
		"fileName": reg.IDDocumentName,
		"fileUrl":  reg.IDDocumentURL,
	})
}

func (s *Server) GetStats(c *gin.Context) {
	resp, err := s.registrationSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ok(c, resp)
}
