package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// PaymentService implements the Connect PaymentService.
type PaymentService struct {
	apiconnect.UnimplementedPaymentServiceHandler
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// RecordPayment records money handed from one member to another.
func (s *PaymentService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"group_id", req.Msg.GroupID,
		"amount_cents", req.Msg.AmountCents,
	)

	group, caller, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		GroupID:         group.ID,
		FromMemberID:    req.Msg.FromMemberID,
		ToMemberID:      req.Msg.ToMemberID,
		AmountCents:     req.Msg.AmountCents,
		Note:            strings.TrimSpace(req.Msg.Note),
		CreatedByUserID: caller.UserID,
	}
	if err := s.validate(ctx, payment); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded", "payment_id", payment.ID)
	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment, group.Currency)}), nil
}

// GetPayment returns one payment.
func (s *PaymentService) GetPayment(ctx context.Context, req *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	payment, group, err := s.paymentForMember(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetPaymentResponse{Payment: toAPIPayment(payment, group.Currency)}), nil
}

// UpdatePayment rewrites the members, amount and note of a payment.
func (s *PaymentService) UpdatePayment(ctx context.Context, req *connect.Request[api.UpdatePaymentRequest]) (*connect.Response[api.UpdatePaymentResponse], error) {
	payment, group, err := s.paymentForMember(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payment.FromMemberID = req.Msg.FromMemberID
	payment.ToMemberID = req.Msg.ToMemberID
	payment.AmountCents = req.Msg.AmountCents
	payment.Note = strings.TrimSpace(req.Msg.Note)
	if err := s.validate(ctx, payment); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		slog.Error("UpdatePayment failed", "payment_id", payment.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment updated", "payment_id", payment.ID)
	return connect.NewResponse(&api.UpdatePaymentResponse{Payment: toAPIPayment(payment, group.Currency)}), nil
}

// DeletePayment removes a payment.
func (s *PaymentService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error) {
	payment, _, err := s.paymentForMember(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeletePayment(ctx, payment.ID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", payment.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment deleted", "payment_id", payment.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ListPayments returns the group's payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	group, _, err := groupForMember(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPayments(ctx, group.ID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p, group.Currency)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// paymentForMember loads a payment and checks the caller belongs to its group.
func (s *PaymentService) paymentForMember(ctx context.Context, paymentID string) (*models.Payment, *models.Group, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.store.GetGroup(ctx, payment.GroupID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := requireGroupMember(ctx, s.store, group.ID, userID); err != nil {
		return nil, nil, err
	}
	return payment, group, nil
}

func (s *PaymentService) validate(ctx context.Context, p *models.Payment) error {
	if p.FromMemberID == p.ToMemberID {
		return ErrSameMember
	}
	if p.AmountCents <= 0 {
		return ErrAmount
	}

	r, err := loadRoster(ctx, s.store, p.GroupID)
	if err != nil {
		return err
	}
	if !r.isActive(p.FromMemberID) || !r.isActive(p.ToMemberID) {
		return ErrPaymentMember
	}
	return nil
}
