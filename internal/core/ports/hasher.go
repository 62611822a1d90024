package ports

// Hasher defines the interface for computing content fingerprints.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashFiles computes a single fingerprint over the names and contents of
	// files, which are relative to dir.
	HashFiles(dir string, files []string) (string, error)
}
