package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"gocloud.dev/secrets"

	// KMS drivers usable through KMS_KEY_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// SigningKeySource describes where the token signing key comes from. Exactly
// one of Plaintext or Ciphertext is expected; Ciphertext needs KMSKeyURI.
type SigningKeySource struct {
	Plaintext  string
	Ciphertext string
	KMSKeyURI  string
}

// LoadSigningKey resolves the signing key once at process start. A wrapped
// key is unwrapped with the KMS keeper at KMSKeyURI (gcpkms://, awskms://,
// azurekeyvault://, hashivault:// or base64key://).
func LoadSigningKey(ctx context.Context, src SigningKeySource) ([]byte, error) {
	var key []byte

	switch {
	case src.Ciphertext != "":
		if src.KMSKeyURI == "" {
			return nil, errors.New("KMS_KEY_URI is required to unwrap AUTH_SIGNING_KEY_CIPHERTEXT")
		}
		ciphertext, err := base64.StdEncoding.DecodeString(src.Ciphertext)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signing key ciphertext: %w", err)
		}
		key, err = unwrap(ctx, src.KMSKeyURI, ciphertext)
		if err != nil {
			return nil, err
		}

	case src.Plaintext != "":
		var err error
		key, err = base64.StdEncoding.DecodeString(src.Plaintext)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signing key: %w", err)
		}

	default:
		return nil, errors.New("AUTH_SIGNING_KEY or AUTH_SIGNING_KEY_CIPHERTEXT must be set")
	}

	if len(key) < MinSigningKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinSigningKeyLength, len(key))
	}
	return key, nil
}

func unwrap(ctx context.Context, keyURI string, ciphertext []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap signing key: %w", err)
	}
	return plaintext, nil
}
