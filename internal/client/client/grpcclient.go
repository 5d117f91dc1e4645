package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultCallTimeout = 30 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        grpc.ClientConnInterface
	closer      func() error
	callTimeout time.Duration

	mu           sync.RWMutex
	sessionToken string
}

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withSessionToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewDistillrClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, callTimeout: defaultCallTimeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.sessionTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.closer = conn.Close
	return nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionToken
}

func (s *GRPCClient) SetSessionToken(token string) {
	s.mu.Lock()
	s.sessionToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *GRPCClient) SignInAnonymously(ctx context.Context) (*rpc.SignInResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.SignInResponse](ctx, s.conn, rpc.MethodSignInAnonymously, rpc.SignInRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CheckUserStatus(ctx context.Context, deviceID string) (*rpc.StatusResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.StatusResponse](ctx, s.conn, rpc.MethodCheckUserStatus, rpc.StatusRequest{DeviceID: deviceID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Distill(ctx context.Context, deviceID, url string) (*rpc.DistillResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.DistillResponse](ctx, s.conn, rpc.MethodDistill, rpc.DistillRequest{DeviceID: deviceID, URL: url})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreatePaymentIntent(ctx context.Context, isLive bool) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.PaymentIntentResponse](ctx, s.conn, rpc.MethodCreatePaymentIntent, rpc.PaymentIntentRequest{IsLive: isLive})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ClientSecret, nil
}

func (s *GRPCClient) ConfirmPurchase(ctx context.Context, req rpc.ConfirmPurchaseRequest) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.ConfirmPurchaseResponse](ctx, s.conn, rpc.MethodConfirmPurchase, req)
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Success, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.ResourceExhausted:
		return ErrQuotaExhausted
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.FailedPrecondition:
		return ErrPaymentsDisabled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
