package documents

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	RegisterRoutes(app)
	return app
}

func TestHandleDownload_InvalidID(t *testing.T) {
	app := newTestApp()

	req, _ := http.NewRequest(http.MethodGet, "/documents/not-a-number/download", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid docID, got %d", resp.StatusCode)
	}
}

func TestHandleDelete_InvalidID(t *testing.T) {
	app := newTestApp()

	req, _ := http.NewRequest(http.MethodDelete, "/documents/not-a-number", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid docID, got %d", resp.StatusCode)
	}
}
