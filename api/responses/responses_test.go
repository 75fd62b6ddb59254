package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope
}

func TestWriteSuccessIsBare(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"txDigest": "D1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["txDigest"] != "D1" {
		t.Fatalf("body %v, want bare DTO without envelope", body)
	}
}

func TestWriteErrorRendersValidationWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeValidation, "budget name is required"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "budget name is required" {
		t.Fatalf("message %q", envelope.Error.Message)
	}
}

func TestWriteErrorStatusPerCode(t *testing.T) {
	cases := []struct {
		code pkgerrors.Code
		want int
	}{
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeUnexpectedShape, http.StatusBadGateway},
		{pkgerrors.CodeTxNotVisible, http.StatusGatewayTimeout},
		{pkgerrors.CodeObjectNotCreated, http.StatusInternalServerError},
		{pkgerrors.CodeIdempotency, http.StatusConflict},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.want {
			t.Fatalf("code %s rendered status %d, want %d", tc.code, rec.Code, tc.want)
		}
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("secret database string"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("code %q", envelope.Error.Code)
	}
	if envelope.Error.Message == "secret database string" {
		t.Fatal("internal message leaked to the client")
	}
}
