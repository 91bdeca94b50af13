package store

// MockCategoryStore is an in-memory category store for testing.
type MockCategoryStore struct {
	Config *CategoryConfig

	LoadError error
	SaveError error

	// SaveCount counts successful Save calls.
	SaveCount int
}

// Load returns the configured CategoryConfig, or the defaults when none is set.
func (m *MockCategoryStore) Load() (*CategoryConfig, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Config == nil {
		m.Config = DefaultCategoryConfig()
	}
	return m.Config, nil
}

// Save records the configuration and clears its dirty flag.
func (m *MockCategoryStore) Save(cfg *CategoryConfig) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Config = cfg
	cfg.dirty = false
	m.SaveCount++
	return nil
}
