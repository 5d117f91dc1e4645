package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/rpc"
	"github.com/dmitrijs2005/distillr/internal/server/models"
	"github.com/dmitrijs2005/distillr/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func decode(in *structpb.Struct, v any) error {
	if in == nil {
		return nil
	}
	if err := rpc.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := rpc.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// toStatus maps service errors onto gRPC codes. Unexpected errors are
// logged and hidden from the caller.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrQuotaExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, common.ErrPaymentsDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	s.logger.Error(ctx, op+" failed", "error", err.Error(), "uid", uidFromContext(ctx))
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) SignInAnonymously(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.accounts.SignInAnonymously(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "sign in", err)
	}

	s.logger.Debug(ctx, "Anonymous session issued", "uid", sess.UID)
	return encode(rpc.SignInResponse{UID: sess.UID, Token: sess.Token})
}

func (s *GRPCServer) CheckUserStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.StatusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	st, err := s.accounts.Status(ctx, req.DeviceID)
	if err != nil {
		return nil, s.toStatus(ctx, "check status", err)
	}

	return encode(rpc.StatusResponse{IsPro: st.IsPro, Remaining: st.Remaining})
}

func (s *GRPCServer) Distill(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.DistillRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	result, err := s.distiller.Distill(ctx, req.DeviceID, req.URL)
	if err != nil {
		s.countDistill(err)
		if errors.Is(err, services.ErrFetchFailed) || errors.Is(err, services.ErrNothingToDistill) {
			s.logger.Warn(ctx, "Distill failed", "url", req.URL, "error", err.Error())
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		return nil, s.toStatus(ctx, "distill", err)
	}
	s.countDistill(nil)

	s.logger.Info(ctx, "Distilled", "uid", uidFromContext(ctx), "percent", result.Percent, "remaining", result.Remaining)
	return encode(rpc.DistillResponse{Text: result.Text, Percent: result.Percent, Remaining: result.Remaining})
}

func (s *GRPCServer) countDistill(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.Distill("ok")
	case errors.Is(err, common.ErrQuotaExhausted):
		s.metrics.Distill("exhausted")
	default:
		s.metrics.Distill("failed")
	}
}

func (s *GRPCServer) CreatePaymentIntent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.PaymentIntentRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	secret, err := s.payments.CreatePaymentIntent(ctx, req.IsLive)
	if err != nil {
		return nil, s.toStatus(ctx, "create payment intent", err)
	}

	return encode(rpc.PaymentIntentResponse{ClientSecret: secret})
}

// ConfirmPurchase answers success=false for a receipt redeemed by another
// device rather than failing the call.
func (s *GRPCServer) ConfirmPurchase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.ConfirmPurchaseRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	err := s.accounts.ConfirmPurchase(ctx, &models.Purchase{
		Receipt:  req.Receipt,
		DeviceID: req.DeviceID,
		Platform: req.Platform,
		IsLive:   req.IsLive,
	})
	if errors.Is(err, services.ErrReceiptInUse) {
		s.logger.Warn(ctx, "Receipt already redeemed", "device_id", req.DeviceID)
		return encode(rpc.ConfirmPurchaseResponse{Success: false})
	}
	if err != nil {
		return nil, s.toStatus(ctx, "confirm purchase", err)
	}

	if s.metrics != nil {
		s.metrics.PurchaseConfirmed(req.Platform, req.IsLive)
	}
	s.logger.Info(ctx, "Purchase confirmed", "device_id", req.DeviceID, "platform", req.Platform, "is_live", req.IsLive)
	return encode(rpc.ConfirmPurchaseResponse{Success: true})
}
