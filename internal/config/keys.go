// Package config resolves the CLI's configuration keys across the process
// environment, the OS keychain and the per-user dotfile, and persists changes
// to the latter two.
package config

// Key identifies one configuration value.
type Key int

// Configuration keys.
const (
	APIKey Key = iota
	BaseURL
	ConfigPath
)

// deprecatedBaseURLEnv is an earlier misspelling still honored for base URL.
const deprecatedBaseURLEnv = "SIDKEO_BASE_URL"

// Keys returns every configuration key.
func Keys() []Key {
	return []Key{APIKey, BaseURL, ConfigPath}
}

// String returns the canonical name, used as env var, dotfile key and keychain account.
func (k Key) String() string {
	switch k {
	case APIKey:
		return "SIDEKO_API_KEY"
	case BaseURL:
		return "SIDEKO_BASE_URL"
	case ConfigPath:
		return "SIDEKO_CONFIG_PATH"
	default:
		return "UNKNOWN"
	}
}

// viperKey is the key name inside the store's viper instance.
func (k Key) viperKey() string {
	switch k {
	case APIKey:
		return "api_key"
	case BaseURL:
		return "base_url"
	case ConfigPath:
		return "config_path"
	default:
		return ""
	}
}

// envNames lists the environment variables consulted for k, in order.
func (k Key) envNames() []string {
	if k == BaseURL {
		return []string{k.String(), deprecatedBaseURLEnv}
	}
	return []string{k.String()}
}

// Secret reports whether values of k must never be displayed.
func (k Key) Secret() bool {
	return k == APIKey
}

// Redact renders value for display. Secret values are fully masked.
func Redact(k Key, value string) string {
	if value == "" || !k.Secret() {
		return value
	}
	return "********"
}
