package cli

import (
	"github.com/spf13/cobra"
)

// RootCommand assembles the accountsctl command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "accountsctl",
		Short: "Operate the add-on accounts service",
		Long: `accountsctl talks to the accounts gRPC endpoint, manages the accounts
database directly, and inspects password records offline.

Settings come from the defaults, then the --config file, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVar(&a.flags.addr, "addr", "", "accounts gRPC endpoint (host:port)")
	pf.StringVar(&a.flags.dsn, "dsn", "", "PostgreSQL DSN for admin commands")
	pf.StringVar(&a.flags.token, "token", "", "access token for calls that need a caller")
	pf.StringVar(&a.flags.lang, "lang", "", "Accept-Language sent with calls")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.pingCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.refreshCommand(),
		a.profileCommand(),
		a.changePasswordCommand(),
		a.reviewNotesCommand(),
		a.uploadPictureCommand(),
		a.hashPasswordCommand(),
		a.checkPasswordCommand(),
		a.migrateCommand(),
		a.createSuperuserCommand(),
		a.blockCommand(),
	)
	return root
}
