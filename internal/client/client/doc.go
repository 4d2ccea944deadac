// Package client contains the gateway side of the Bike & Bed client.
//
// # Overview
//
// The package provides:
//  1. The auth gateway contract (see Client) with optional capabilities
//     ProfileUpdater, AvatarUploader and Resumer.
//  2. MockClient, an in-process gateway with two demo accounts and an
//     artificial delay, used for offline demos and tests.
//  3. GRPCClient, which talks to the hosted backend, injects the access
//     token via an interceptor, refreshes expired tokens transparently and
//     maps gRPC status codes to sentinel errors.
//  4. Store bootstrap helpers (OpenStore, RunMigrations) wiring the device
//     key-value store on SQLite or bbolt.
//
// # Error Handling
//
// Account failures are reported with the sentinels of internal/common
// (ErrInvalidCredentials, ErrUserAlreadyExists, ErrUserNotFound,
// ErrTooManyRequests); transport conditions use ErrUnavailable and
// ErrUnauthorized. Match them with errors.Is.
//
// # Concurrency & Contexts
//
// Both gateways are safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
