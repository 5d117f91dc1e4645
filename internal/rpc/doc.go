// Package rpc defines the wire contract between the Distillr client and its
// backend: a gRPC service whose methods exchange google.protobuf.Struct
// payloads, the shape of a callable cloud function's "data" object.
//
// Typed request/response structs are converted to and from Struct through
// their JSON tags (Encode/Decode), so both sides agree on field names such
// as "deviceId" and "isPro" without generated code.
//
// Methods
//
//	SignInAnonymously    {}                                  -> {uid, token}
//	CheckUserStatus      {deviceId}                          -> {isPro, remaining}
//	Distill              {deviceId, url}                     -> {text, percent, remaining}
//	CreatePaymentIntent  {isLive}                            -> {clientSecret}
//	ConfirmPurchase      {deviceId, receipt, platform, isLive} -> {success}
package rpc
