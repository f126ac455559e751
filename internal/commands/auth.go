package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armorview/go-console-framework/internal/presenters"
	"github.com/armorview/go-console-framework/pkg/api"
	"github.com/armorview/go-console-framework/pkg/app"
	"github.com/armorview/go-console-framework/pkg/auth"
	"github.com/armorview/go-console-framework/pkg/session"
)

func newLoginCommand(engine *app.Engine) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the console backend",
		Long: `Opens the provider login page in the browser and waits for the callback carrying
the session token. Pass --token to install an existing token instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				var err error
				token, err = auth.Authenticate(cmd.Context(), engine.GetConfiguration(), engine.GetLogger())
				if err != nil {
					return err
				}
			}

			engine.GetSession().SetCredentials(session.WithToken(token))
			if err := engine.GetClient().Auth.InitializeSession(cmd.Context()); err != nil {
				engine.GetSession().ClearCredentials()
				return err
			}

			if user := engine.GetSession().User(); user != nil {
				cmd.Printf("Logged in as %s\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "use an existing session token instead of the browser flow")
	return cmd
}

func newLogoutCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := engine.GetClient().Auth.Logout(cmd.Context())
			if err != nil {
				engine.GetLogger().Warn().Err(err).Msg("backend logout failed, local session cleared anyway")
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(engine *app.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := engine.GetClient().Auth.Me(cmd.Context())
			if err != nil {
				return loginHint(err)
			}

			cmd.Print(presenters.RenderUser(user, engine.GetSession().CurrentTenant()))
			return nil
		},
	}
}

// loginHint converts a 401 into an actionable message instead of a bare status code.
func loginHint(err error) error {
	if api.IsUnauthorized(err) {
		return fmt.Errorf("session expired or missing, run `console login`")
	}
	return err
}
