package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hondaapi/internal/apperr"
	"hondaapi/internal/model"
	"hondaapi/internal/service"
	serviceMocks "hondaapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type (
	bannerMock  = serviceMocks.MockResource[model.Banner, service.BannerInput]
	serviceMock = serviceMocks.MockResource[model.Service, service.ServiceInput]
	repairMock  = serviceMocks.MockResource[model.RepairSchedule, service.RepairScheduleInput]
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	var pingErr error
	app := fiber.New()
	app.Get("/health", HealthCheck(func(context.Context) error { return pingErr }))

	t.Run("healthy", func(t *testing.T) {
		pingErr = nil

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		pingErr = errors.New("firestore unavailable")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListHandler(t *testing.T) {
	mockSvc := new(serviceMock)
	app := fiber.New()
	app.Get("/services/all", ListHandler[model.Service](mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "brake").
			Return([]model.Service{{ID: "s1", NameService: "Brake check", Type: "repair", Price: 150000}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/services/all?search=brake", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []model.Service
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result, 1)
		assert.Equal(t, "s1", result[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "").Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/services/all", nil)
		resp, _ := app.Test(req)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "[]", string(body))
	})

	t.Run("remote error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "").
			Return(nil, &apperr.RemoteError{Service: "firestore", Err: errors.New("deadline exceeded")}).Once()

		req := httptest.NewRequest(http.MethodGet, "/services/all", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "REMOTE_ERROR", body.Error.Code)
		assert.Equal(t, "firestore: deadline exceeded", body.Error.Message)
	})
}

func bannerForm(t *testing.T, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("title", "Tet sale")
	writer.WriteField("newsContent", "Ten percent off")
	if withImage {
		part, err := writer.CreateFormFile("image", "tet.png")
		require.NoError(t, err)
		part.Write([]byte("png-bytes"))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateHandler_Banner(t *testing.T) {
	mockSvc := new(bannerMock)
	app := fiber.New()
	app.Post("/banners/add", CreateHandler[service.BannerInput](mockSvc, bindBannerForm))

	t.Run("with image", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.BannerInput) bool {
			if in.Image == nil || in.Image.Filename != "tet.png" || in.Image.Size != 9 {
				return false
			}
			b, _ := io.ReadAll(in.Image.Body)
			return in.Title == "Tet sale" && in.NewsContent == "Ten percent off" && string(b) == "png-bytes"
		})).Return("b1", nil).Once()

		body, ct := bannerForm(t, true)
		req := httptest.NewRequest(http.MethodPost, "/banners/add", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "b1", result["id"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("without image", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.BannerInput) bool {
			return in.Image == nil && in.Title == "Tet sale"
		})).Return("b2", nil).Once()

		body, ct := bannerForm(t, false)
		req := httptest.NewRequest(http.MethodPost, "/banners/add", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file too large", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return("", &apperr.UploadError{Op: "validate", Err: apperr.ErrTooLarge}).Once()

		body, ct := bannerForm(t, true)
		req := httptest.NewRequest(http.MethodPost, "/banners/add", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, resp).Error.Code)
	})

	t.Run("upload failure", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return("", &apperr.UploadError{Op: "put", Err: errors.New("quota exceeded")}).Once()

		body, ct := bannerForm(t, true)
		req := httptest.NewRequest(http.MethodPost, "/banners/add", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body2 := decodeError(t, resp)
		assert.Equal(t, "UPLOAD_FAILED", body2.Error.Code)
		assert.NotContains(t, body2.Error.Message, "quota")
	})
}

func TestCreateHandler_JSON(t *testing.T) {
	mockSvc := new(serviceMock)
	app := fiber.New()
	app.Post("/services/add", CreateHandler[service.ServiceInput](mockSvc, bindJSON[service.ServiceInput]))

	tests := []struct {
		name       string
		body       string
		setupMocks func()
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"nameService":"Oil change","type":"maintenance","price":120000}`,
			setupMocks: func() {
				mockSvc.On("Create", mock.Anything, service.ServiceInput{NameService: "Oil change", Type: "maintenance", Price: 120000}).
					Return("s1", nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "validation failed",
			body: `{"type":"maintenance"}`,
			setupMocks: func() {
				mockSvc.On("Create", mock.Anything, service.ServiceInput{Type: "maintenance"}).
					Return("", apperr.Invalid(errors.New("nameService: cannot be blank."))).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "malformed body",
			body:       `{"nameService":`,
			setupMocks: func() {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			req := httptest.NewRequest(http.MethodPost, "/services/add", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	mockSvc := new(repairMock)
	app := fiber.New()
	app.Put("/repair-schedules/update/:id", UpdateHandler[service.RepairScheduleInput](mockSvc, bindJSON[service.RepairScheduleInput]))

	payload := `{"carname":"Vision","cartype":"scooter","date":"2024-03-01T08:00:00Z","service":"Brake","staff":"s1","uid":"u1","username":"Minh","status":"done"}`
	want := service.RepairScheduleInput{
		CarName: "Vision", CarType: "scooter", Date: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Service: "Brake", Staff: "s1", UID: "u1", UserName: "Minh", Status: "done",
	}
	matchInput := mock.MatchedBy(func(in service.RepairScheduleInput) bool {
		return in.Date.Equal(want.Date) && in.CarName == want.CarName && in.Staff == want.Staff && in.Status == want.Status
	})

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, "r1", matchInput).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/repair-schedules/update/r1", strings.NewReader(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, "r9", matchInput).Return(apperr.NotFound("repairSchedules/r9")).Once()

		req := httptest.NewRequest(http.MethodPut, "/repair-schedules/update/r9", strings.NewReader(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteHandler(t *testing.T) {
	mockSvc := new(repairMock)
	app := fiber.New()
	app.Delete("/repair-schedules/delete/:id", DeleteHandler(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "r1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/repair-schedules/delete/r1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "r9").Return(apperr.NotFound("repairSchedules/r9")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/repair-schedules/delete/r9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "r2").Return(errors.New("boom")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/repair-schedules/delete/r2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "internal server error", body.Error.Message)
	})
}

func TestListReviews(t *testing.T) {
	mockSvc := new(serviceMocks.MockReviewLister)
	app := fiber.New()
	app.Get("/reviews/all", ListReviews(mockSvc))

	t.Run("by staff name", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.ReviewQuery{StaffName: "Le Lan", Search: "great"}).
			Return([]model.Review{{ID: "rv1", StaffName: "Le Lan"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/reviews/all?staffName=Le%20Lan&search=great", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown staff", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.ReviewQuery{StaffName: "Nobody"}).
			Return(nil, apperr.NotFound("users with fullname Nobody")).Once()

		req := httptest.NewRequest(http.MethodGet, "/reviews/all?staffName=Nobody", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	banners := new(bannerMock)
	repairs := new(repairMock)
	RegisterRoutes(app, Services{Banners: banners, RepairSchedules: repairs}, nil)

	t.Run("resource routes", func(t *testing.T) {
		banners.On("List", mock.Anything, "").Return([]model.Banner{}, nil).Once()
		repairs.On("Delete", mock.Anything, "r1").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/banners/all", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/api/repair-schedules/delete/r1", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		banners.AssertExpectations(t)
		repairs.AssertExpectations(t)
	})

	t.Run("editors have no add route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/repair-schedules/add", strings.NewReader(`{}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unconfigured resource", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/all", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("health without pinger", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
