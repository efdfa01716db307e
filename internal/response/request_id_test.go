package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})
	return r, &seen
}

func TestRequestIDPropagatesInboundHeader(t *testing.T) {
	r, seen := requestIDRouter()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "kiosk-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if *seen != "kiosk-42" {
		t.Errorf("handler saw %q, want kiosk-42", *seen)
	}
	if got := w.Header().Get(HeaderRequestID); got != "kiosk-42" {
		t.Errorf("response header = %q, want kiosk-42", got)
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	r, seen := requestIDRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if *seen == "" {
		t.Fatal("no request ID assigned")
	}
	if _, err := uuid.Parse(*seen); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", *seen, err)
	}
	if got := w.Header().Get(HeaderRequestID); got != *seen {
		t.Errorf("response header = %q, want %q", got, *seen)
	}
}
