package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/metrics"
	"github.com/mmynk/lessmo/pkg/api"
)

// GetBalances recomputes every participant's balance from the ledger.
// Cached balances are never read here.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:    toAPIBalances(state.balances),
		Outstanding: toAPIBalances(state.outstanding),
	}), nil
}

// GetSettlements suggests the transfers that settle the outstanding balances.
func (s *LedgerService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	settlements, err := calculator.ComputeSettlements(state.outstanding)
	if err != nil {
		s.logger.ErrorContext(ctx, "ComputeSettlements failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.SettlementTransactions.Observe(float64(len(settlements)))

	names := state.names()
	resp := &api.GetSettlementsResponse{Settlements: toAPISettlements(settlements, names)}

	if req.Msg.Compare {
		cmp, err := calculator.CompareSettlements(state.Expenses, state.Participants)
		if err != nil {
			s.logger.ErrorContext(ctx, "CompareSettlements failed", "event_id", req.Msg.EventID, "error", err)
			return nil, toConnectError(err)
		}
		resp.Comparison = &api.SettlementComparison{
			Direct:              toAPISettlements(cmp.Direct, names),
			Optimized:           toAPISettlements(cmp.Optimized, names),
			TransactionsSaved:   cmp.TransactionsSaved,
			PercentageReduction: cmp.PercentageReduction.InexactFloat64(),
		}
	}

	s.logger.DebugContext(ctx, "Settlements computed", "event_id", req.Msg.EventID, "count", len(settlements))
	return connect.NewResponse(resp), nil
}

// GetBudgetSummary reports spending against the event and participant budgets.
func (s *LedgerService) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	summary, err := calculator.SummarizeBudget(state.Event.Budget, state.Expenses, state.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetBudgetSummaryResponse{
		Budget:         toFloat(summary.Budget),
		TotalSpent:     toFloat(summary.TotalSpent),
		Remaining:      toFloat(summary.Remaining),
		PercentageUsed: summary.PercentageUsed.InexactFloat64(),
		OverBudget:     summary.OverBudget,
	}
	for _, p := range summary.Participants {
		resp.Participants = append(resp.Participants, &api.ParticipantBudget{
			ParticipantID: p.ParticipantID,
			Name:          p.Name,
			Budget:        toFloat(p.Budget),
			Spent:         toFloat(p.Spent),
			Remaining:     toFloat(p.Remaining),
			OverBudget:    p.OverBudget,
		})
	}
	return connect.NewResponse(resp), nil
}
