package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/communitydao/budget-backend/api/responses"
	"github.com/communitydao/budget-backend/api/validators"
	"github.com/communitydao/budget-backend/internal/governance"
	"github.com/communitydao/budget-backend/internal/proposals"
	"github.com/communitydao/budget-backend/internal/votes"
	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/logger"
)

type proposalCreateRequest struct {
	BudgetID     string           `json:"budgetId"`
	Title        string           `json:"title" validate:"required"`
	Description  string           `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	Receiver     string           `json:"receiver" validate:"required"`
	Participants []string         `json:"participants" validate:"required,min=1"`
}

func (r proposalCreateRequest) toInput() (governance.CreateProposalInput, error) {
	if r.Amount == nil {
		return governance.CreateProposalInput{}, pkgerrors.New(pkgerrors.CodeValidation, "amount is required")
	}
	participants := make([]string, 0, len(r.Participants))
	for _, participant := range r.Participants {
		participants = append(participants, strings.TrimSpace(participant))
	}
	return governance.CreateProposalInput{
		BudgetID:     strings.TrimSpace(r.BudgetID),
		Title:        validators.SanitizeString(r.Title, 200),
		Description:  validators.SanitizeString(r.Description, 2000),
		AmountSui:    *r.Amount,
		Receiver:     strings.TrimSpace(r.Receiver),
		Participants: participants,
	}, nil
}

type voteRequest struct {
	BudgetID string `json:"budgetId" validate:"required"`
	Choice   *bool  `json:"choice" validate:"required"`
	Voter    string `json:"voter"`
}

// ProposalCreate submits a proposal creation transaction.
func ProposalCreate(svc governance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req proposalCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CreateProposal(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}

// ProposalList lists every proposal discoverable through the event window.
func ProposalList(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ProposalGet reads one proposal's on-chain state.
func ProposalGet(svc governance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposal, err := svc.GetProposal(r.Context(), chi.URLParam(r, "proposalId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proposal)
	}
}

// ProposalsByParticipant lists proposals whose participant set contains the
// address, compared case-insensitively.
func ProposalsByParticipant(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := strings.TrimSpace(chi.URLParam(r, "address"))
		if address == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "address is required"))
			return
		}
		listing, err := svc.ListByParticipant(r.Context(), address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ProposalVote submits a vote transaction and, when a voter address is
// given, records the non-authoritative voted marker.
func ProposalVote(svc governance.Service, markers votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req voteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposalID := chi.URLParam(r, "proposalId")
		result, err := svc.Vote(r.Context(), governance.VoteInput{
			BudgetID:   strings.TrimSpace(req.BudgetID),
			ProposalID: proposalID,
			Choice:     *req.Choice,
			Voter:      strings.TrimSpace(req.Voter),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if voter := strings.TrimSpace(req.Voter); voter != "" {
			_ = markers.MarkVoted(r.Context(), proposalID, voter)
		}
		responses.WriteSuccess(w, result)
	}
}

// ProposalVoted reads the voted marker for one address.
func ProposalVoted(markers votes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voted, err := markers.HasVoted(r.Context(), chi.URLParam(r, "proposalId"), chi.URLParam(r, "address"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read voted marker"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"voted": voted})
	}
}
