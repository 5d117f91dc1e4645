package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "distillr.functions.v1.Functions"

const (
	MethodSignInAnonymously   = "SignInAnonymously"
	MethodCheckUserStatus     = "CheckUserStatus"
	MethodDistill             = "Distill"
	MethodCreatePaymentIntent = "CreatePaymentIntent"
	MethodConfirmPurchase     = "ConfirmPurchase"
)

// FullMethod returns the gRPC method path, e.g. "/distillr.functions.v1.Functions/Distill".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// FunctionsServer is implemented by the backend.
type FunctionsServer interface {
	SignInAnonymously(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckUserStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Distill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePaymentIntent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmPurchase(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type serverCall func(FunctionsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call serverCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FunctionsServer), ctx, req.(*structpb.Struct))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Functions service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FunctionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSignInAnonymously, Handler: unaryHandler(MethodSignInAnonymously, FunctionsServer.SignInAnonymously)},
		{MethodName: MethodCheckUserStatus, Handler: unaryHandler(MethodCheckUserStatus, FunctionsServer.CheckUserStatus)},
		{MethodName: MethodDistill, Handler: unaryHandler(MethodDistill, FunctionsServer.Distill)},
		{MethodName: MethodCreatePaymentIntent, Handler: unaryHandler(MethodCreatePaymentIntent, FunctionsServer.CreatePaymentIntent)},
		{MethodName: MethodConfirmPurchase, Handler: unaryHandler(MethodConfirmPurchase, FunctionsServer.ConfirmPurchase)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "distillr/functions.v1",
}

// RegisterFunctionsServer registers srv on s.
func RegisterFunctionsServer(s grpc.ServiceRegistrar, srv FunctionsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Invoke calls method on cc, encoding req and decoding the reply into a Resp.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
