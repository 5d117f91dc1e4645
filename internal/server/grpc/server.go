// Package grpc exposes the backend services over the Functions gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
	"github.com/dmitrijs2005/distillr/internal/server/metrics"
	"github.com/dmitrijs2005/distillr/internal/server/models"
	"github.com/dmitrijs2005/distillr/internal/server/services"
	"google.golang.org/grpc"
)

type Accounts interface {
	SignInAnonymously(ctx context.Context) (*services.Session, error)
	Status(ctx context.Context, deviceID string) (*services.Status, error)
	ConfirmPurchase(ctx context.Context, p *models.Purchase) error
}

type Distiller interface {
	Distill(ctx context.Context, deviceID, url string) (*services.DistillResult, error)
}

type Payments interface {
	CreatePaymentIntent(ctx context.Context, isLive bool) (string, error)
}

type GRPCServer struct {
	address   string
	accounts  Accounts
	distiller Distiller
	payments  Payments
	metrics   *metrics.Metrics
	logger    logging.Logger
	jwtSecret []byte
}

var _ rpc.FunctionsServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, m *metrics.Metrics, accounts Accounts, distiller Distiller, payments Payments, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		metrics:   m,
		accounts:  accounts,
		distiller: distiller,
		payments:  payments,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.sessionTokenInterceptor))

	rpc.RegisterFunctionsServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
