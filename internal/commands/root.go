// Package commands builds the console command tree. Every command goes through the engine's
// resource clients, so output always reflects the shared query cache and session.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/armorview/go-console-framework/pkg/app"
	"github.com/armorview/go-console-framework/pkg/configuration"
)

// NewRootCommand builds the console command tree on top of a wired engine.
func NewRootCommand(engine *app.Engine) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "console",
		Short:         "Administrative console for the security findings platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config := engine.GetConfiguration()

	flags := pflag.NewFlagSet("global", pflag.ContinueOnError)
	flags.String("api-url", "", "backend base URL")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Int("timeout", 0, "request timeout in seconds, 0 disables the timeout")
	rootCmd.PersistentFlags().AddFlagSet(flags)

	config.AddAlternativeKeys(configuration.API_URL, []string{"api-url"})
	config.AddAlternativeKeys(configuration.DEBUG, []string{"debug"})
	config.AddAlternativeKeys(configuration.LOG_LEVEL, []string{"log-level"})
	config.AddAlternativeKeys(configuration.INSECURE_HTTPS, []string{"insecure"})
	config.AddAlternativeKeys(configuration.TIMEOUT, []string{"timeout"})
	_ = config.AddFlagSet(flags)

	rootCmd.AddCommand(
		newLoginCommand(engine),
		newLogoutCommand(engine),
		newWhoamiCommand(engine),
		newTenantsCommand(engine),
		newFindingsCommand(engine),
		newDashboardCommand(engine),
		newTicketsCommand(engine),
		newRunbooksCommand(engine),
		newScanCommand(engine),
	)
	return rootCmd
}
