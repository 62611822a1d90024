// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
)

// Executor defines the interface for running external processes on behalf of tasks.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd, streaming its output to stdout and stderr.
	// It returns an error if the process cannot start or exits non-zero.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
