// Package cli provides the interactive Bike & Bed terminal client.
//
// App is the composition root: it opens the device store, picks the auth
// gateway (mock or gRPC), and owns the auth, language, theme and first-run
// services, passing them their collaborators explicitly. The REPL stands
// in for the app screens: every label goes through the active translation,
// and every state change goes through a service operation.
//
// Commands:
//   - register, login, reset, logout
//   - whoami, profile, avatar
//   - lang [code], theme [light|dark|toggle]
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
