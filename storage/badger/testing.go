package badger

// NewMemoryRepository opens an in-memory backend with a repository on top.
// Intended for tests; callers must close both.
func NewMemoryRepository() (*Backend, *VectorRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return backend, repo, nil
}
