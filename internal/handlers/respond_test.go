package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestOversizedBodyKeepsEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    1024,
		ErrorHandler: ErrorHandler,
	})
	app.Post("/cv/upload", func(c fiber.Ctx) error {
		return respondSuccess(c, fiber.StatusCreated, "reached handler", nil)
	})

	// Four times the body limit: the server cuts this off before the
	// handler's own size check could run.
	body := bytes.Repeat([]byte("a"), 4*1024)
	req := httptest.NewRequest("POST", "/cv/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Expected status 400 for oversized body, got %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Response body is not the JSON envelope: %v", err)
	}
	if envelope.Status != "error" {
		t.Errorf("Expected envelope status error, got %q", envelope.Status)
	}
	if envelope.Message == "" {
		t.Error("Expected a message in the error envelope")
	}
}

func TestErrorHandlerPassesThroughOtherCodes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/teapot", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("Expected status 418, got %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Response body is not the JSON envelope: %v", err)
	}
	if envelope.Status != "error" || envelope.Message != "short and stout" {
		t.Errorf("Unexpected envelope: %+v", envelope)
	}
}
