package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

func (h *Handler) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the password manager with an encryption key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			v, err := h.openVault(ctx)
			if err != nil {
				return err
			}
			defer v.close(h.logger)

			initialized, err := v.keys.HasKey(ctx)
			if err != nil {
				return err
			}
			if initialized {
				return model.ErrAlreadyInitialized
			}

			key, err := h.prompter.Secret("Enter encryption key (leave empty to generate one): ")
			if err != nil {
				return fmt.Errorf("read encryption key: %w", err)
			}

			generated := key == ""
			if generated {
				if key, err = application.GenerateMasterKey(); err != nil {
					return err
				}
			} else {
				repeat, err := h.prompter.Secret("Repeat encryption key: ")
				if err != nil {
					return fmt.Errorf("read encryption key: %w", err)
				}
				if repeat != key {
					return errKeyMismatch
				}
			}

			if _, err := v.keys.Unlock(ctx, key); err != nil {
				return err
			}

			if generated {
				h.writeNotice("Generated encryption key. Keep it somewhere safe, it will not be shown again:")
				fmt.Fprintln(h.out, key)
			}
			h.writeSuccess("Password manager initialized successfully!")
			return nil
		},
	}
}

func (h *Handler) authCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with sudo privileges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := h.requireInitialized(cmd); err != nil {
				return err
			}
			if err := h.privilege.Authenticate(ctx); err != nil {
				h.logger.Debug("privilege elevation failed", "error", err)
				return errAuthFailed
			}
			h.writeSuccess("Authentication successful!")
			return nil
		},
	}
}

func (h *Handler) authCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-check",
		Short: "Check authentication status and vault state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			v, err := h.openVault(ctx)
			if err != nil {
				return err
			}
			defer v.close(h.logger)

			status, err := v.keys.Status(ctx)
			if err != nil {
				return err
			}
			if !status.Initialized {
				return model.ErrNotInitialized
			}
			if !h.privilege.Check(ctx) {
				return errNotAuthed
			}

			h.writeSuccess("User is authenticated")
			fmt.Fprintf(h.out, "  %-16s %s\n", "Vault ID:", status.VaultID)
			fmt.Fprintf(h.out, "  %-16s %d\n", "KDF iterations:", status.Iterations)
			fmt.Fprintf(h.out, "  %-16s %s\n", "Created:", status.CreatedAt.Local().Format(timeLayout))
			return nil
		},
	}
}

// requireInitialized fails with model.ErrNotInitialized when the vault has no
// key verifier yet.
func (h *Handler) requireInitialized(cmd *cobra.Command) error {
	ctx := cmd.Context()

	v, err := h.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.close(h.logger)

	initialized, err := v.keys.HasKey(ctx)
	if err != nil {
		return err
	}
	if !initialized {
		return model.ErrNotInitialized
	}
	return nil
}

func (h *Handler) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the database, key verifier and keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			v, err := h.openVault(ctx)
			if err != nil {
				return err
			}
			defer v.close(h.logger)

			report := v.health.Check(ctx)
			fmt.Fprintf(h.out, "Vault: %s\n", v.db.Path())
			for _, check := range report.Checks {
				h.writeCheck(check)
			}
			if report.Status == model.HealthFailing {
				return errUnhealthy
			}
			return nil
		},
	}
}
