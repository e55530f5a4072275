package context

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext(target string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)

	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestGetRequestID(t *testing.T) {
	c := newEchoContext("/")

	generated := GetRequestID(c)
	assert.NotEmpty(t, generated)

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetRequestIDFromContext(ctx))

	same, again := EnsureRequestID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)
}

func TestGetLoggerOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := fallback.With(slog.String("component", "test"))

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Nil(t, GetLogger(context.Background()))
	assert.Same(t, scoped, GetLoggerOrDefault(WithLogger(context.Background(), scoped), fallback))
}

func TestWithoutTokenRefresh(t *testing.T) {
	assert.False(t, TokenRefreshDisabled(context.Background()))
	assert.True(t, TokenRefreshDisabled(WithoutTokenRefresh(context.Background())))
}

func TestGatewayReference(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "reference", target: "/payment/callback?reference=ORDER_1_a", want: "ORDER_1_a"},
		{name: "trxref", target: "/payment/callback?trxref=ORDER_2_b", want: "ORDER_2_b"},
		{name: "reference wins", target: "/payment/callback?trxref=x&reference=y", want: "y"},
		{name: "missing", target: "/payment/callback", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GatewayReference(newEchoContext(tt.target)))
		})
	}
}
