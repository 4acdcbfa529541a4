package vault

import (
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
)

// ErrSecretNotFound is returned when the path or the key inside it is absent.
var ErrSecretNotFound = errors.New("vault: secret not found")

type SecretManager struct {
	client     *api.Client
	speechPath string
	jwtPath    string
}

type Paths struct {
	Speech string
	JWT    string
}

func NewSecretManager(address, token string, paths Paths) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}

	client.SetToken(token)

	if paths.Speech == "" {
		paths.Speech = "secret/data/speech"
	}
	if paths.JWT == "" {
		paths.JWT = "secret/data/jwt"
	}

	return &SecretManager{client: client, speechPath: paths.Speech, jwtPath: paths.JWT}, nil
}

// GetSecret reads a string value from a KV v2 path.
func (sm *SecretManager) GetSecret(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: %s has no data", ErrSecretNotFound, path)
	}
	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s#%s", ErrSecretNotFound, path, key)
	}
	return value, nil
}

func (sm *SecretManager) GetSpeechAPIKey() (string, error) {
	return sm.GetSecret(sm.speechPath, "api_key")
}

func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.GetSecret(sm.jwtPath, "secret")
}
