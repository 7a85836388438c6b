package validators

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func postJSON(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var payload samplePayload
	if err := DecodeJSONBody(postJSON(`{"email":"a@b.com","quantity":2}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "a@b.com" || payload.Quantity != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var payload samplePayload
	err := DecodeJSONBody(postJSON(`{"email":"a@b.com","quantity":1,"extra":true}`), &payload)
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	huge := `{"email":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	var payload samplePayload
	err := DecodeJSONBody(postJSON(huge), &payload)
	if err == nil {
		t.Fatal("expected oversized body to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if typed.Message() != "request body too large" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDecodeJSONBodyReportsFieldsByWireName(t *testing.T) {
	var payload samplePayload
	err := DecodeJSONBody(postJSON(`{"email":"not-an-email","quantity":0}`), &payload)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected a typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity message %q", details["quantity"])
	}
}
