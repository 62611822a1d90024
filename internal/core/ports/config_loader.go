package ports

import "go.trai.ch/recipe/internal/core/domain"

// ConfigLoader defines the interface for the declarative setup phase.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file at path, builds every task and aggregate,
	// and returns the setup with a frozen registry. A directory path is
	// searched upward for the project file.
	Load(path string) (*domain.Setup, error)

	// DiscoverRoot walks up from cwd to find the directory holding the project file.
	DiscoverRoot(cwd string) (string, error)
}
