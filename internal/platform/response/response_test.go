package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

func TestError_MapsKindsToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"forbidden", domain.NewForbiddenError("no"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", domain.NewNotFoundError("Booking", "1"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid state", domain.NewInvalidStateError("Paid", "Paid"), http.StatusConflict, "INVALID_STATE"},
		{"wrapped conflict", fmt.Errorf("save: %w", domain.NewConflictError("raced")), http.StatusConflict, "CONFLICT"},
		{"unknown", fmt.Errorf("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestPaginated_ComputesTotalPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Paginated(c, []string{"a"}, 41, 2, 20)

	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.Equal(t, 2, body.Meta.Page)
}
