// Package testinfra starts throwaway MongoDB containers for integration tests.
//
// Everything except this file is behind the integration build tag:
//
//	go test -tags integration ./internal/infrastructure/mongo/...
//
// Tests are skipped when no Docker daemon is reachable.
package testinfra
