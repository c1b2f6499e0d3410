package service

import (
	"context"
	"fmt"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/internal/calculator"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/pkg/api"
)

// RecordPayment records a real transfer between two participants and
// returns the outstanding balances.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	unlock := s.lockEvent(req.Msg.EventID)
	defer unlock()

	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		EventID:   req.Msg.EventID,
		FromID:    req.Msg.FromID,
		ToID:      req.Msg.ToID,
		Amount:    toDecimal(req.Msg.Amount),
		Note:      req.Msg.Note,
		CreatedBy: middleware.GetUserID(ctx),
	}
	if _, err := calculator.ApplyPayments(state.outstanding, []models.Payment{payment}); err != nil {
		s.logger.WarnContext(ctx, "RecordPayment rejected", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreatePayment(ctx, &payment); err != nil {
		s.logger.ErrorContext(ctx, "RecordPayment failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Payment recorded",
		"event_id", req.Msg.EventID,
		"payment_id", payment.ID,
		"from", payment.FromID,
		"to", payment.ToID,
		"amount", payment.Amount.String(),
	)

	fresh, err := s.refresh(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.PaymentResponse{
		Payment:     toAPIPayment(payment),
		Outstanding: toAPIBalances(fresh.outstanding),
	}), nil
}

// ListPayments returns the payments of an event in creation order.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	payments := make([]*api.Payment, len(state.Payments))
	for i, p := range state.Payments {
		payments[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: payments}), nil
}

// DeletePayment removes a recorded payment and returns the outstanding balances.
func (s *LedgerService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	unlock := s.lockEvent(req.Msg.EventID)
	defer unlock()

	state, err := s.load(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(state.Payments, func(p models.Payment) bool { return p.ID == req.Msg.PaymentID }) {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("payment %s is not part of event %s", req.Msg.PaymentID, req.Msg.EventID))
	}

	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Payment deleted", "event_id", req.Msg.EventID, "payment_id", req.Msg.PaymentID)

	fresh, err := s.refresh(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.PaymentResponse{Outstanding: toAPIBalances(fresh.outstanding)}), nil
}
