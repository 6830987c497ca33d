package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"gocloud.dev/secrets"

	authService "github.com/allisson/hireflow/internal/auth/service"
)

// RunCreateSigningKey generates a random token signing key and prints it as
// environment variables. When kmsKeyURI is set the key is wrapped by that KMS
// key and printed as AUTH_SIGNING_KEY_CIPHERTEXT; otherwise it is printed in
// plaintext as AUTH_SIGNING_KEY.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunCreateSigningKey(ctx context.Context, logger *slog.Logger, writer io.Writer, kmsKeyURI string) error {
	key := make([]byte, authService.MinSigningKeyLength)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer clear(key)

	if kmsKeyURI == "" {
		logger.Warn("signing key printed in plaintext, prefer --kms-key-uri outside development")
		_, _ = fmt.Fprintf(writer, "AUTH_SIGNING_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
		return nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to wrap signing key: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "AUTH_SIGNING_KEY_CIPHERTEXT=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
