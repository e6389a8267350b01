package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/andriansp/account-service/internal/config"
	"github.com/andriansp/account-service/internal/handler"
	"github.com/andriansp/account-service/internal/router"
)

func newServer() *echo.Echo {
	return router.New(handler.NewAccountHandler(config.Config{Env: "test"}, nil, nil))
}

func TestHealthRouteRegistered(t *testing.T) {
	e := newServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPanicInHandlerBecomes500(t *testing.T) {
	e := newServer()
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
