package provider

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "whisper-api/internal/app/errors"
)

// Settings is the free-form provider section of the configuration file.
type Settings map[string]interface{}

// ProviderCreator is a function that creates a provider from configuration
type ProviderCreator func(settings Settings) (TranscriptionProvider, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
	providerLogger   = zap.NewNop()
)

// SetLogger sets the logger handed to providers created afterwards.
func SetLogger(logger *zap.Logger) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if logger != nil {
		providerLogger = logger
	}
}

// Logger returns the logger providers should use.
func Logger() *zap.Logger {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return providerLogger
}

// RegisterProvider registers a provider creator function
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownBackend, providerType)
	}
	return creator, nil
}

// NewProvider builds a registered provider from its settings.
func NewProvider(providerType string, settings Settings) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = Settings{}
	}
	p, err := creator(settings)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}
	return p, nil
}

// ListRegisteredProviders returns all registered provider types, sorted.
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, providerType)
	}
	sort.Strings(providers)
	return providers
}

// String returns the string setting key, or def when absent.
func (s Settings) String(key, def string) string {
	if v, ok := s[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Int accepts both YAML integers and JSON-style floats.
func (s Settings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns the numeric setting key, or def when absent.
func (s Settings) Float(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Bool returns the boolean setting key, or def when absent.
func (s Settings) Bool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return def
}

// Duration reads a duration given either as a Go duration string ("90s")
// or as a number of seconds.
func (s Settings) Duration(key string, def time.Duration) (time.Duration, error) {
	switch v := s[key].(type) {
	case nil:
		return def, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("%s: unsupported duration value %v", key, s[key])
}

// StringMap returns a nested string map such as custom headers.
func (s Settings) StringMap(key string) map[string]string {
	out := make(map[string]string)
	if m, ok := s[key].(map[string]interface{}); ok {
		for k, v := range m {
			if str, ok := v.(string); ok {
				out[k] = str
			}
		}
	}
	return out
}
