package httpclient

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthorizationConfig describes how the client authenticates. The token
// itself stays in the environment, never in the file.
type AuthorizationConfig struct {
	Type        string `yaml:"type"`          // e.g. "Bearer"
	TokenEnvVar string `yaml:"token_env_var"` // environment variable holding the token
}

// ClientConfig is the YAML form of a named client configuration.
type ClientConfig struct {
	BaseURL          string               `yaml:"base_url"`
	Timeout          string               `yaml:"timeout"`
	Headers          map[string]string    `yaml:"headers"`
	Authorization    *AuthorizationConfig `yaml:"authorization,omitempty"`
	RetryCount       int                  `yaml:"retry_count"`
	RetryWaitTime    string               `yaml:"retry_wait_time"`
	MaxRetryWaitTime string               `yaml:"max_retry_wait_time"`
	EnableLogging    bool                 `yaml:"enable_logging"`
}

// APIConfigs maps service names to client configurations.
type APIConfigs struct {
	Clients map[string]ClientConfig `yaml:"clients"`
}

// LoadConfig reads client configurations from a YAML file.
func LoadConfig(path string) (*APIConfigs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var configs APIConfigs
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("error parsing YAML config: %w", err)
	}
	return &configs, nil
}

// CreateClient builds the HTTP client for the named service, resolving
// the authorization token from the environment.
func (c *APIConfigs) CreateClient(name string) (*Client, error) {
	clientConfig, ok := c.Clients[name]
	if !ok {
		return nil, fmt.Errorf("client config not found: %s", name)
	}

	config := DefaultConfig()
	if clientConfig.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required in client configuration %q", name)
	}
	config.BaseURL = clientConfig.BaseURL
	if clientConfig.Headers != nil {
		config.Headers = clientConfig.Headers
	}
	if clientConfig.RetryCount > 0 {
		config.RetryCount = clientConfig.RetryCount
	}

	if err := parseDuration(clientConfig.Timeout, &config.Timeout); err != nil {
		return nil, fmt.Errorf("client configuration %q: %w", name, err)
	}
	if err := parseDuration(clientConfig.RetryWaitTime, &config.RetryWaitTime); err != nil {
		return nil, fmt.Errorf("client configuration %q: %w", name, err)
	}
	if err := parseDuration(clientConfig.MaxRetryWaitTime, &config.MaxRetryWaitTime); err != nil {
		return nil, fmt.Errorf("client configuration %q: %w", name, err)
	}

	client := NewClient(config)

	if clientConfig.EnableLogging {
		client.WithMiddleware(LoggingMiddleware())
	}

	if auth := clientConfig.Authorization; auth != nil {
		if auth.TokenEnvVar == "" {
			return nil, fmt.Errorf("token_env_var is required in authorization configuration %q", name)
		}
		token := os.Getenv(auth.TokenEnvVar)
		if token == "" {
			return nil, fmt.Errorf("environment variable %s for authorization token is required but not set", auth.TokenEnvVar)
		}
		authType := auth.Type
		if authType == "" {
			authType = "Bearer"
		}
		client.WithMiddleware(HeaderMiddleware(map[string]string{
			"Authorization": authType + " " + token,
		}))
	}

	return client, nil
}

// parseDuration overwrites dst when the YAML field is non-empty.
func parseDuration(field string, dst *time.Duration) error {
	if field == "" {
		return nil
	}
	d, err := time.ParseDuration(field)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", field, err)
	}
	*dst = d
	return nil
}
