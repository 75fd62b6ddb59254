package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/communitydao/budget-backend/pkg/sui"
)

func TestLogsListDefaultsLimit(t *testing.T) {
	var gotLimit int
	svc := &stubGovernance{
		listSpending: func(ctx context.Context, limit int) ([]sui.SpendingEvent, error) {
			gotLimit = limit
			return []sui.SpendingEvent{{TxDigest: "T1", BudgetID: "0xb", ProposalID: "0xp", Amount: 3}}, nil
		},
	}
	rec := serveWithParam(LogsList(svc, testLogger()), http.MethodGet, "/logs", "/logs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if gotLimit != defaultLogLimit {
		t.Fatalf("limit %d, want %d", gotLimit, defaultLogLimit)
	}
	var events []sui.SpendingEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].TxDigest != "T1" {
		t.Fatalf("events %+v", events)
	}
}

func TestLogsListRejectsOversizedLimit(t *testing.T) {
	svc := &stubGovernance{}
	rec := serveWithParam(LogsList(svc, testLogger()), http.MethodGet, "/logs?limit=500", "/logs", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}
