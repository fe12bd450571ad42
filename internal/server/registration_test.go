package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lexperience/backend/internal/config"
	"github.com/lexperience/backend/internal/observability"
	obsmetrics "github.com/lexperience/backend/internal/observability/metrics"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
	"github.com/stretchr/testify/assert"
)

// -- Fakes --

type fakeRegistrationService struct {
	submitResp  regdomain.Registration
	submitErr   error
	submitReq   *regdomain.SubmitRequest
	confirmResp regdomain.Registration
	confirmErr  error
	addOnResp   regdomain.AddOnPayment
	addOnErr    error
	getResp     regdomain.Registration
	getErr      error
	listResp    regdomain.ListResponse
	listErr     error
	statsResp   regdomain.StatsResponse
	statsErr    error
}

func (f *fakeRegistrationService) Submit(ctx context.Context, req regdomain.SubmitRequest) (regdomain.Registration, error) {
	f.submitReq = &req
	return f.submitResp, f.submitErr
}

func (f *fakeRegistrationService) ConfirmPayment(ctx context.Context, req regdomain.ConfirmPaymentRequest) (regdomain.Registration, error) {
	return f.confirmResp, f.confirmErr
}

func (f *fakeRegistrationService) RecordAddOn(ctx context.Context, req regdomain.RecordAddOnRequest) (regdomain.AddOnPayment, error) {
	return f.addOnResp, f.addOnErr
}

func (f *fakeRegistrationService) AttachDocument(ctx context.Context, email, fileName, fileURL string) error {
	return nil
}

func (f *fakeRegistrationService) GetByEmail(ctx context.Context, email string) (regdomain.Registration, error) {
	return f.getResp, f.getErr
}

func (f *fakeRegistrationService) List(ctx context.Context, req regdomain.ListRequest) (regdomain.ListResponse, error) {
	return f.listResp, f.listErr
}

func (f *fakeRegistrationService) Stats(ctx context.Context) (regdomain.StatsResponse, error) {
	return f.statsResp, f.statsErr
}

func newTestServer(t *testing.T, svc regdomain.Service, adminToken string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := obsmetrics.NewRegistry()
	httpMetrics, err := obsmetrics.NewHTTPMetrics(registry)
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(observability.Config{}, httpMetrics, registry)

	node, _ := snowflake.NewNode(1)
	return NewServer(ServerParams{
		Gin:             engine,
		Cfg:             config.Config{AdminAPIToken: adminToken},
		GenID:           node,
		RegistrationSvc: svc,
	})
}

func doJSON(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// -- Tests --

func TestRegisterJSON(t *testing.T) {
	fake := &fakeRegistrationService{
		submitResp: regdomain.Registration{
			Name:         "Ada Lovelace",
			Email:        "ada@example.com",
			PaymentState: regdomain.PaymentPending,
		},
	}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodPost, "/register", gin.H{
		"name":             "Ada Lovelace",
		"email":            "Ada@Example.com",
		"affiliation":      "general",
		"paymentReference": "ref-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", data["email"])

	assert.NotNil(t, fake.submitReq)
	assert.Equal(t, "Ada@Example.com", fake.submitReq.Email)
	assert.Empty(t, fake.submitReq.IDDocumentName)
}

func TestRegisterMultipartWithDocument(t *testing.T) {
	fake := &fakeRegistrationService{
		submitResp: regdomain.Registration{Email: "ada@example.com"},
	}
	s := newTestServer(t, fake, "")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("name", "Ada Lovelace")
	_ = writer.WriteField("email", "ada@example.com")
	_ = writer.WriteField("affiliation", "student")
	_ = writer.WriteField("paymentReference", "ref-1")
	part, _ := writer.CreateFormFile("idDocument", "student-id.png")
	_, _ = part.Write([]byte("png-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/register", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, fake.submitReq)
	assert.Equal(t, "student-id.png", fake.submitReq.IDDocumentName)
	assert.Equal(t, []byte("png-bytes"), fake.submitReq.IDDocumentContent)
}

func TestRegisterValidationError(t *testing.T) {
	fake := &fakeRegistrationService{submitErr: regdomain.ErrInvalidEmail}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodPost, "/register", gin.H{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_email", body["message"])
}

func TestRegisterPaidDowngradeConflict(t *testing.T) {
	stored := regdomain.Registration{
		Email:        "ada@example.com",
		PaymentState: regdomain.PaymentPaid,
	}
	fake := &fakeRegistrationService{submitResp: stored, submitErr: regdomain.ErrPaidDowngrade}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodPost, "/register", gin.H{"email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["paymentState"])
}

func TestGetRegistrationNotFound(t *testing.T) {
	fake := &fakeRegistrationService{getErr: regdomain.ErrNotFound}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodGet, "/registration/nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "not found", body["message"])
}

func TestConfirmPaymentConflict(t *testing.T) {
	fake := &fakeRegistrationService{
		confirmResp: regdomain.Registration{PaymentState: regdomain.PaymentPaid},
		confirmErr:  regdomain.ErrPaidDowngrade,
	}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodPost, "/payments/confirm", gin.H{
		"email": "ada@example.com", "reference": "ref-1", "status": "failed",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["paymentState"])
}

func TestAddOnPayment(t *testing.T) {
	t.Run("not found without registration", func(t *testing.T) {
		fake := &fakeRegistrationService{addOnErr: regdomain.ErrNotFound}
		s := newTestServer(t, fake, "")

		rec := doJSON(s, http.MethodPost, "/addon-payment", gin.H{
			"email": "nobody@example.com", "reference": "addon-1",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("records", func(t *testing.T) {
		fake := &fakeRegistrationService{
			addOnResp: regdomain.AddOnPayment{Email: "ada@example.com", Reference: "addon-1", Amount: 12000},
		}
		s := newTestServer(t, fake, "")

		rec := doJSON(s, http.MethodPost, "/addon-payment", gin.H{
			"email": "ada@example.com", "reference": "addon-1",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeResponse(t, rec)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, float64(12000), data["amount"])
	})
}

func TestGetFile(t *testing.T) {
	t.Run("document present", func(t *testing.T) {
		fake := &fakeRegistrationService{
			getResp: regdomain.Registration{
				Email:          "ada@example.com",
				IDDocumentName: "id.png",
				IDDocumentURL:  "https://cdn.example/id.png",
			},
		}
		s := newTestServer(t, fake, "")

		rec := doJSON(s, http.MethodGet, "/file/ada@example.com", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeResponse(t, rec)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "id.png", data["fileName"])
		assert.Equal(t, "https://cdn.example/id.png", data["fileUrl"])
	})

	t.Run("document absent", func(t *testing.T) {
		fake := &fakeRegistrationService{
			getResp: regdomain.Registration{Email: "ada@example.com"},
		}
		s := newTestServer(t, fake, "")

		rec := doJSON(s, http.MethodGet, "/file/ada@example.com", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	fake := &fakeRegistrationService{
		statsResp: regdomain.StatsResponse{
			Total: 2,
			Paid:  1,
			ByAffiliation: map[string]int64{
				"student": 1,
				"general": 1,
			},
		},
	}
	s := newTestServer(t, fake, "")

	rec := doJSON(s, http.MethodGet, "/registrations/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["paid"])
}

func TestListRegistrationsAuth(t *testing.T) {
	fake := &fakeRegistrationService{
		listResp: regdomain.ListResponse{
			Registrations: []regdomain.Registration{{Email: "ada@example.com"}},
		},
	}

	t.Run("no token configured", func(t *testing.T) {
		s := newTestServer(t, fake, "")
		rec := doJSON(s, http.MethodGet, "/registrations", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		s := newTestServer(t, fake, "secret-token")
		rec := doJSON(s, http.MethodGet, "/registrations", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		s := newTestServer(t, fake, "secret-token")
		req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		s := newTestServer(t, fake, "secret-token")
		req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ada@example.com")
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeRegistrationService{}, "")
	rec := doJSON(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
