package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"github.com/shopmall/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}
	respond := func(err error) gin.HandlerFunc {
		return func(c *gin.Context) { h.HandleError(c, err) }
	}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"wrapped domain error", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{"invalid parent", shared.ErrInvalidParent, http.StatusUnprocessableEntity, "ERR_INVALID_PARENT"},
		{"circular move", shared.ErrCircularReference, http.StatusUnprocessableEntity, "ERR_CIRCULAR_REFERENCE"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, "ERR_INVALID_STATE"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "ERR_FORBIDDEN"},
		{"unmapped invalid code", shared.NewDomainError("INVALID_SIZE", "bad size"), http.StatusBadRequest, "ERR_INVALID_SIZE"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.RunHTTPTestCase(t, respond(tt.err), testutil.HTTPTestCase{
				ExpectedStatus: tt.status,
				ExpectedCode:   tt.code,
			})
		})
	}
}

func TestHandleError_KeepsRequestIDAndRecordsInternalErrors(t *testing.T) {
	h := &BaseHandler{}
	tc := testutil.NewTestContext(t)
	tc.SetRequestID("req-42")

	h.HandleError(tc.Context, errors.New("db down"))

	assert.Equal(t, http.StatusInternalServerError, tc.ResponseCode())
	body := testutil.JSONResponse(t, tc)
	assert.Equal(t, "req-42", body["error"].(map[string]any)["request_id"])
	require.Len(t, tc.Context.Errors, 1)
	assert.EqualError(t, tc.Context.Errors[0].Err, "db down")
}

func TestBindError(t *testing.T) {
	require.NoError(t, middleware.SetupValidator())
	h := &BaseHandler{}

	type body struct {
		ID string `json:"id" binding:"required,category_id"`
	}
	bind := func(c *gin.Context) {
		var req body
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
		h.Success(c, req)
	}

	testutil.RunHTTPTestCases(t, bind, []testutil.HTTPTestCase{
		{
			Name:           "valid",
			Method:         http.MethodPost,
			Body:           map[string]string{"id": "men"},
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "comma in id",
			Method:         http.MethodPost,
			Body:           map[string]string{"id": "a,b"},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_VALIDATION",
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				details := testutil.JSONResponse(t, tc)["error"].(map[string]any)["details"].([]any)
				require.Len(t, details, 1)
				assert.Equal(t, "id", details[0].(map[string]any)["field"])
			},
		},
		{
			Name:           "not json",
			Method:         http.MethodPost,
			Body:           "just a string",
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_INVALID_JSON",
		},
	})
}

func TestParseUUIDParamAndRequireUser(t *testing.T) {
	h := &BaseHandler{}
	userID := uuid.New()
	itemID := uuid.New()

	read := func(c *gin.Context) {
		id, ok := h.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		caller, ok := h.RequireUser(c)
		if !ok {
			return
		}
		h.Success(c, gin.H{"id": id, "caller": caller})
	}

	testutil.RunHTTPTestCases(t, read, []testutil.HTTPTestCase{
		{
			Name:           "bad uuid",
			Setup:          func(t *testing.T, tc *testutil.TestContext) { tc.SetParam("id", "nope") },
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "ERR_INVALID_INPUT",
		},
		{
			Name:           "anonymous",
			Setup:          func(t *testing.T, tc *testutil.TestContext) { tc.SetParam("id", itemID.String()) },
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedCode:   "ERR_UNAUTHORIZED",
		},
		{
			Name: "authenticated",
			Setup: func(t *testing.T, tc *testutil.TestContext) {
				tc.SetParam("id", itemID.String())
				tc.SetClaims(userID, "100")
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				data := testutil.JSONResponse(t, tc)["data"].(map[string]any)
				assert.Equal(t, itemID.String(), data["id"])
				assert.Equal(t, userID.String(), data["caller"])
			},
		},
	})
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{-1, 1000, 1, 100},
	}
	for _, tt := range tests {
		page, size := normalizePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
	}
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		h := NewSystemHandler("1.2.3", nil)
		testutil.RunHTTPTestCase(t, h.Health, testutil.HTTPTestCase{
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)
				data := testutil.JSONResponse(t, tc)["data"].(map[string]any)
				assert.Equal(t, "healthy", data["status"])
				assert.Equal(t, "1.2.3", data["version"])
				assert.NotContains(t, data, "checks")
			},
		})
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := NewSystemHandler("1.2.3", map[string]HealthChecker{
			"database": func(ctx context.Context) error { return nil },
			"redis": func(ctx context.Context) error {
				_, ok := ctx.Deadline()
				require.True(t, ok, "checks run with a timeout")
				return errors.New("connection refused")
			},
		})
		testutil.RunHTTPTestCase(t, h.Health, testutil.HTTPTestCase{
			ExpectedStatus: http.StatusServiceUnavailable,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				body := testutil.JSONResponse(t, tc)
				assert.Equal(t, false, body["success"])
				data := body["data"].(map[string]any)
				assert.Equal(t, "unhealthy", data["status"])
				checks := data["checks"].(map[string]any)
				assert.Equal(t, "healthy", checks["database"])
				assert.Equal(t, "unhealthy: connection refused", checks["redis"])
			},
		})
	})
}
