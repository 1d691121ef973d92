package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when neither a file nor a value is set.
var ErrNotConfigured = errors.New("not configured")

// Source says where a secret such as the LLM API key comes from.
type Source struct {
	// Name labels the secret in errors, e.g. "llm api key".
	Name string
	// Value is the inline secret from config or environment.
	Value string
	// File holds the secret on disk and wins over Value.
	File string
	// Hint is appended to errors to tell the user how to configure the secret.
	Hint string
}

// Load resolves the secret, preferring File over Value. The result is trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	secret, err := resolve(name, src)
	if err != nil {
		if hint := strings.TrimSpace(src.Hint); hint != "" {
			return "", fmt.Errorf("%w (%s)", err, hint)
		}
		return "", err
	}
	return secret, nil
}

func resolve(name string, src Source) (string, error) {
	file := strings.TrimSpace(src.File)
	if file == "" {
		secret := strings.TrimSpace(src.Value)
		if secret == "" {
			return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
		}
		return secret, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}
	return secret, nil
}
