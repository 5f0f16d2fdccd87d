package shim

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// Config provides configuration options for shim initialization.
type Config struct {
	// Namespace controls the function namespace to use for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string
}

// RuntimeConfig carries configuration that is used during creation of shim
// components.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// SDK represents the initialized shim runtime.
type SDK struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig
}

// initialized tracks whether Init has already run. The shim assumes a single
// logical thread of control, so a plain flag is the synchronization model.
var initialized bool

// Init performs the one-time process-wide setup for the shim. It must be
// called exactly once before any other shim component is used; a second call
// returns ErrAlreadyInitialized.
func Init(config Config) (*SDK, error) {
	if initialized {
		return nil, ErrAlreadyInitialized
	}
	initialized = true

	// Create runtime configuration with defaults
	cfg := RuntimeConfig{Namespace: DefaultNamespace}

	// Override defaults with provided configuration
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	return &SDK{runtime: cfg}, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }
