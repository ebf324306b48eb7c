package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadiness_NoDependencies(t *testing.T) {
	rec, resp := serve(t, NewReadinessHandler(nil).Readiness)
	if rec.Code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewReadinessHandler(map[string]Checker{
		"mongodb": func(context.Context) error { return errors.New("no reachable servers") },
		"redis":   func(context.Context) error { return nil },
	})
	rec, resp := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable || resp.Status != "degraded" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
	if resp.Dependencies["mongodb"].Status != "unhealthy" || resp.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected dependencies: %+v", resp.Dependencies)
	}
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rec, _ := serve(t, NewReadinessHandler(map[string]Checker{"redis": RedisChecker(rdb)}).Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	mr.Close()
	rec, _ = serve(t, NewReadinessHandler(map[string]Checker{"redis": RedisChecker(rdb)}).Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status after close = %d", rec.Code)
	}
}
