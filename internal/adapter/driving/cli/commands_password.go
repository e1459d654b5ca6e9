package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05"

func (h *Handler) generateCommand() *cobra.Command {
	var (
		length            int
		service, username string
		noCopy            bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a strong password and optionally store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := h.requirePrivilege(ctx); err != nil {
				return err
			}
			if (service == "") != (username == "") {
				return fmt.Errorf("%w: --service and --username must be given together", model.ErrInvalidInput)
			}

			var password string
			if service == "" {
				var err error
				if password, err = application.GeneratePassword(length); err != nil {
					return err
				}
			} else {
				err := h.withSession(ctx, func(svc *application.CredentialService) error {
					var err error
					password, err = svc.Generate(ctx, service, username, length)
					return err
				})
				if err != nil {
					return err
				}
				h.writeSuccess("Generated and stored password for %s", service)
			}

			return h.deliverPassword("Generated password:", password, noCopy)
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", application.DefaultPasswordLength, "password length")
	cmd.Flags().StringVarP(&service, "service", "s", "", "service name to store the password under")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to store the password under")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "print the password instead of copying it to the clipboard")
	return cmd
}

func (h *Handler) storeCommand() *cobra.Command {
	var service, username, password string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a password for a service and username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			err := h.withSession(ctx, func(svc *application.CredentialService) error {
				return svc.Store(ctx, service, username, password)
			})
			if err != nil {
				return err
			}
			h.writeSuccess("Password stored successfully!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "service name")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password to store")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (h *Handler) retrieveCommand() *cobra.Command {
	var (
		service, username string
		noCopy            bool
	)

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Retrieve the password for a service and username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var password string
			err := h.withSession(ctx, func(svc *application.CredentialService) error {
				var err error
				password, err = svc.Get(ctx, service, username)
				return err
			})
			if err != nil {
				return err
			}
			return h.deliverPassword("Retrieved password:", password, noCopy)
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "service name")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "print the password instead of copying it to the clipboard")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (h *Handler) listCommand() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored services and usernames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var refs []model.CredentialRef
			err := h.withSession(ctx, func(svc *application.CredentialService) error {
				var err error
				refs, err = svc.List(ctx, service)
				return err
			})
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				if service != "" {
					h.writeNotice("✗ No passwords found for service: %s", service)
				} else {
					h.writeNotice("✗ No passwords stored yet.")
				}
				return nil
			}

			h.writeHeading("Stored Passwords:")
			h.writeSeparator()
			for _, ref := range refs {
				fmt.Fprintf(h.out, "Service: %s\n", ref.Service)
				fmt.Fprintf(h.out, "Username: %s\n", ref.Username)
				fmt.Fprintf(h.out, "Created: %s\n", ref.CreatedAt.Local().Format(timeLayout))
				h.writeSeparator()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "only list entries for this service")
	return cmd
}

func (h *Handler) deleteCommand() *cobra.Command {
	var (
		service, username string
		force             bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored passwords for a service and username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				deleted   int64
				cancelled bool
			)
			err := h.withSession(ctx, func(svc *application.CredentialService) error {
				if !force {
					ok, err := h.prompter.Confirm(fmt.Sprintf("Are you sure you want to delete the password for %s (%s)?", service, username))
					if err != nil {
						return fmt.Errorf("read confirmation: %w", err)
					}
					if !ok {
						cancelled = true
						return nil
					}
				}
				var err error
				deleted, err = svc.Delete(ctx, service, username)
				return err
			})
			if err != nil {
				return err
			}

			if cancelled {
				h.writeNotice("Operation cancelled.")
				return nil
			}
			if deleted > 1 {
				h.writeSuccess("Deleted %d passwords successfully!", deleted)
			} else {
				h.writeSuccess("Password deleted successfully!")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "service name")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
