package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

const defaultCallbackPort = 3000

// openBrowserFunc is swapped out in tests.
var openBrowserFunc = browser.OpenURL

// LoginURL builds the provider entry URL on the public base. The backend owns the OAuth dance
// with the provider and redirects back with a token query parameter.
func LoginURL(config configuration.Configuration) (string, error) {
	base := config.GetString(configuration.PUBLIC_API_URL)
	if base == "" {
		base = config.GetString(configuration.API_URL)
	}
	if base == "" {
		return "", errors.New("no public base URL configured")
	}

	authPath := config.GetString(configuration.OAUTH_AUTHORIZATION_PATH)
	if authPath == "" {
		authPath = configuration.DefaultOauthPath
	}

	return strings.TrimSuffix(base, "/") + authPath, nil
}

// Authenticate runs the browser login flow: it opens the provider entry URL and waits on a local
// listener for the backend's callback carrying the session token. The caller is responsible for
// committing the returned token to the session store.
func Authenticate(ctx context.Context, config configuration.Configuration, logger *zerolog.Logger) (string, error) {
	loginUrl, err := LoginURL(config)
	if err != nil {
		return "", err
	}

	port := config.GetInt(configuration.OAUTH_CALLBACK_PORT)
	if port <= 0 {
		port = defaultCallbackPort
	}

	tokenChannel := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/success", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token parameter", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Login complete. You can close this window.")
		tokenChannel <- token
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	logger.Debug().Str("url", loginUrl).Msg("opening browser for login")
	if err := openBrowserFunc(loginUrl); err != nil {
		logger.Warn().Err(err).Msg("failed to open browser, please visit the login URL manually")
		fmt.Println("Please visit:", loginUrl)
	}

	select {
	case token := <-tokenChannel:
		return token, nil
	case err := <-serveErr:
		return "", errors.Wrap(err, "callback listener failed")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// TokenFromCallbackURL extracts the token parameter from a callback URL, for flows where the
// redirect lands outside the local listener and the analyst pastes the URL instead.
func TokenFromCallbackURL(callback string) (string, error) {
	u, err := url.Parse(callback)
	if err != nil {
		return "", errors.Wrap(err, "invalid callback URL")
	}

	token := u.Query().Get("token")
	if token == "" {
		return "", errors.New("callback URL carries no token parameter")
	}
	return token, nil
}
