package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
)

// createUserOutput is the JSON shape printed by create-user.
type createUserOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RunCreateUser creates an identity of any role, including admin and
// superadmin which public signup refuses. Output is text or JSON.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input *authDomain.SignupInput,
	format string,
) error {
	logger.Info("creating new user", slog.String("email", input.Email), slog.String("role", input.Role))

	identity, err := useCase.CreateIdentity(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	output := createUserOutput{
		ID:    identity.ID.String(),
		Name:  identity.Name,
		Email: identity.Email,
		Role:  string(identity.Role),
	}

	if format == "json" {
		if err := writeJSON(writer, output); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "User created successfully\n")
		_, _ = fmt.Fprintf(writer, "ID:    %s\n", output.ID)
		_, _ = fmt.Fprintf(writer, "Name:  %s\n", output.Name)
		_, _ = fmt.Fprintf(writer, "Email: %s\n", output.Email)
		_, _ = fmt.Fprintf(writer, "Role:  %s\n", output.Role)
	}

	logger.Info("user created successfully", slog.String("user_id", output.ID))
	return nil
}
