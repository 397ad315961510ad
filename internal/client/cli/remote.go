package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, false, func(ctx context.Context, c api.AccountsServiceClient) error {
				resp, err := c.Ping(ctx, &api.PingRequest{})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
				return nil
			})
		},
	}
}

func (a *App) registerCommand() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account; an empty password leaves it without one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readSecret(cmd, "Password (empty for none)")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.withClient(cmd, false, func(ctx context.Context, c api.AccountsServiceClient) error {
				resp, err := c.RegisterUser(ctx, &api.RegisterUserRequest{
					Username: username,
					Email:    email,
					Password: string(password),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", resp.Username, resp.UserID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func printTokens(cmd *cobra.Command, access, refresh string) {
	fmt.Fprintf(cmd.OutOrStdout(), "access_token: %s\nrefresh_token: %s\n", access, refresh)
}

func (a *App) loginCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readSecret(cmd, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.withClient(cmd, false, func(ctx context.Context, c api.AccountsServiceClient) error {
				resp, err := c.Login(ctx, &api.LoginRequest{Username: username, Password: string(password)})
				if err != nil {
					return err
				}
				a.logger.Debug(ctx, "logged in", "username", username)
				printTokens(cmd, resp.AccessToken, resp.RefreshToken)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *App) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <refresh-token>",
		Short: "Trade a refresh token for a new token pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, false, func(ctx context.Context, c api.AccountsServiceClient) error {
				resp, err := c.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: args[0]})
				if err != nil {
					return err
				}
				printTokens(cmd, resp.AccessToken, resp.RefreshToken)
				return nil
			})
		},
	}
}

func (a *App) profileCommand() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a profile, the caller's by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, true, func(ctx context.Context, c api.AccountsServiceClient) error {
				p, err := c.GetProfile(ctx, &api.GetProfileRequest{UserID: userID})
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "id:\t%d\n", p.UserID)
				fmt.Fprintf(w, "username:\t%s\n", p.Username)
				fmt.Fprintf(w, "name:\t%s\n", p.WelcomeName)
				fmt.Fprintf(w, "url:\t%s\n", p.URLPath)
				fmt.Fprintf(w, "picture:\t%s\n", p.PictureURL)
				fmt.Fprintf(w, "staff:\t%t\n", p.IsStaff)
				fmt.Fprintf(w, "superuser:\t%t\n", p.IsSuperuser)
				fmt.Fprintf(w, "firefox account:\t%t\n", p.FxaMigrated)
				if p.Bio != "" {
					fmt.Fprintf(w, "bio (%s):\t%s\n", p.BioLocale, p.Bio)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id; 0 means the caller")
	return cmd
}

func (a *App) changePasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the caller's password and log out other sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, err := a.readSecret(cmd, "Current password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(oldPassword)

			newPassword, err := a.readSecret(cmd, "New password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(newPassword)

			return a.withClient(cmd, true, func(ctx context.Context, c api.AccountsServiceClient) error {
				_, err := c.ChangePassword(ctx, &api.ChangePasswordRequest{
					OldPassword: string(oldPassword),
					NewPassword: string(newPassword),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "password changed")
				return nil
			})
		},
	}
}

func (a *App) reviewNotesCommand() *cobra.Command {
	var addonID, versionID, noteID int64

	cmd := &cobra.Command{
		Use:   "review-notes",
		Short: "Print the review notes of an add-on version as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, true, func(ctx context.Context, c api.AccountsServiceClient) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				if noteID != 0 {
					resp, err := c.GetReviewNote(ctx, &api.GetReviewNoteRequest{AddonID: addonID, VersionID: versionID, NoteID: noteID})
					if err != nil {
						return err
					}
					return enc.Encode(resp.Note)
				}

				resp, err := c.ListReviewNotes(ctx, &api.ListReviewNotesRequest{AddonID: addonID, VersionID: versionID})
				if err != nil {
					return err
				}
				return enc.Encode(resp.Notes)
			})
		},
	}
	cmd.Flags().Int64Var(&addonID, "addon", 0, "add-on id")
	cmd.Flags().Int64Var(&versionID, "version", 0, "version id")
	cmd.Flags().Int64Var(&noteID, "note", 0, "print only this note")
	_ = cmd.MarkFlagRequired("addon")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func (a *App) uploadPictureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-picture <file>",
		Short: "Upload a new profile picture for the caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return a.withClient(cmd, true, func(ctx context.Context, c api.AccountsServiceClient) error {
				target, err := c.GetPictureUploadURL(ctx, &api.GetPictureUploadURLRequest{})
				if err != nil {
					return err
				}
				if got := http.DetectContentType(data); got != target.ContentType {
					return fmt.Errorf("%s is %s, the server accepts %s", args[0], got, target.ContentType)
				}

				if err := a.upload(ctx, target.URL, target.ContentType, data); err != nil {
					return err
				}
				if _, err := c.PictureUploaded(ctx, &api.PictureUploadedRequest{ContentType: target.ContentType}); err != nil {
					return err
				}

				a.logger.Debug(ctx, "picture uploaded", "bytes", len(data))
				fmt.Fprintf(cmd.OutOrStdout(), "picture updated (%d bytes)\n", len(data))
				return nil
			})
		},
	}
}
