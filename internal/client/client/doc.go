// Package client contains the Distillr client's transport and local storage
// bootstrap.
//
// # Overview
//
//  1. Client: the contract for the backend's callable operations
//     (SignInAnonymously, CheckUserStatus, Distill, CreatePaymentIntent,
//     ConfirmPurchase).
//  2. GRPCClient: the gRPC implementation. A unary interceptor attaches the
//     anonymous session token; gRPC status codes are mapped to sentinel errors.
//  3. InitDatabase / RunMigrations: the local SQLite store (device identifier)
//     with embedded goose migrations.
//
// # Error Handling
//
// Callers match the sentinels in errors.go with errors.Is. Anything else is
// wrapped as "rpc error: ...".
package client
