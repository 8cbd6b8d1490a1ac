package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		wantPages  int
		wantOffset int64
	}{
		{"exact fit", 1, 10, 30, 3, 0},
		{"partial last page", 2, 10, 31, 4, 10},
		{"single item", 1, 10, 1, 1, 0},
		{"empty", 1, 10, 0, 0, 0},
		{"page clamped to 1", 0, 10, 5, 1, 0},
		{"limit clamped to 1", 3, 0, 5, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestRespondJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, 201, "Created", map[string]string{"id": "abc"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Created", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, 404, "Moment not found")

	assert.Equal(t, 404, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Moment not found", resp.Message)
	assert.Nil(t, resp.Data)
}
