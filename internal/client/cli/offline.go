package cli

import (
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/hashers"
	"github.com/spf13/cobra"
)

func (a *App) hashPasswordCommand() *cobra.Command {
	var algo, salt string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the credential record of a password",
		Long: `Print the credential record of a password read from the terminal.

Legacy algorithms (sha512+MD5, sha512+base64, sha512+MD5+base64, md5) are
accepted to build fixtures; logins upgrade such records to sha512.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readSecret(cmd, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if salt == "" {
				if salt, err = common.MakeRandHexString(6); err != nil {
					return err
				}
			}
			encoded, err := hashers.MakePassword(string(password), salt, hashers.Algorithm(algo))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
	cmd.Flags().StringVar(&algo, "algorithm", string(hashers.Current), "record algorithm")
	cmd.Flags().StringVar(&salt, "salt", "", "salt; random when empty")
	return cmd
}

func (a *App) checkPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-password <record>",
		Short: "Verify a password against a stored credential record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded := args[0]
			out := cmd.OutOrStdout()

			if !hashers.IsUsable(encoded) {
				fmt.Fprintln(out, "unusable record")
				return nil
			}
			algo, ok := hashers.Identify(encoded)
			if !ok {
				fmt.Fprintln(out, "unrecognized record")
				return nil
			}

			password, err := a.readSecret(cmd, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			valid := hashers.Check(string(password), encoded)
			fmt.Fprintf(out, "algorithm: %s\nvalid: %t\n", algo, valid)
			if valid {
				if upgraded, changed := hashers.UpgradeIfNeeded(string(password), encoded); changed {
					fmt.Fprintf(out, "upgrade: %s\n", upgraded)
				}
			}
			return nil
		},
	}
}
