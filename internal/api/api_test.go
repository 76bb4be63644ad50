package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockiq/backend-go/internal/config"
	"github.com/stockiq/backend-go/internal/pipeline"
)

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := pipeline.New(config.AnalysisConfig{}, nil)
	router := NewRouter(runner, t.TempDir(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		want     []string
		allowAll bool
	}{
		{
			name: "plain list",
			in:   []string{"https://a.example", "https://b.example"},
			want: []string{"https://a.example", "https://b.example"},
		},
		{
			name: "comma separated entry",
			in:   []string{"https://a.example, https://b.example"},
			want: []string{"https://a.example", "https://b.example"},
		},
		{
			name:     "wildcard",
			in:       []string{"*"},
			allowAll: true,
		},
		{
			name:     "wildcard mixed with origins",
			in:       []string{"https://a.example", "*"},
			want:     []string{"https://a.example"},
			allowAll: true,
		},
		{
			name: "blank entries dropped",
			in:   []string{" ", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, allowAll := normalizeAllowedOrigins(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.allowAll, allowAll)
		})
	}
}
