package configuration

const (
	API_URL        string = "console_api_url"        // API_URL (string) sets/returns the authenticated backend base URL
	PUBLIC_API_URL string = "console_public_api_url" // PUBLIC_API_URL (string) sets/returns the unauthenticated base URL used for pre-login flows
	DEBUG          string = "console_debug"          // DEBUG (boolean) sets/returns if debugging is enabled or not
	INSECURE_HTTPS string = "console_insecure"       // INSECURE_HTTPS (boolean) sets/returns if the network stack shall skip certificate verification
	LOG_LEVEL      string = "console_log_level"      // LOG_LEVEL (string) returns the log level based on zerolog levels (trace,debug,info,...)
	TIMEOUT        string = "console_timeout_secs"   // TIMEOUT (int) sets/returns the timeout in seconds for network requests, 0 disables the timeout

	// AUTHENTICATION_TOKEN (string) holds the bearer token of the current session. It is the only
	// persisted key, so that a new process rehydrates the same session.
	AUTHENTICATION_TOKEN string = "console_access_token"

	// REFETCH_DELAY_MS (int) sets/returns the delay in milliseconds before refetching resources that
	// an external system updates asynchronously (ticket tracker, scan pipeline). The correct value
	// depends on the latency of those systems and is deliberately not hard-coded anywhere else.
	REFETCH_DELAY_MS string = "console_refetch_delay_ms"

	// internal constants
	RETRY_ATTEMPTS           string = "internal_network_request_max_attempts"        // RETRY_ATTEMPTS (int) maximum number of attempts for retryable requests, 1 disables retries
	RETRY_AFTER_SECONDS      string = "internal_network_request_retry_after_seconds" // RETRY_AFTER_SECONDS (int) fallback backoff interval when the server sends no Retry-After header
	CACHE_TTL_SECONDS        string = "internal_query_cache_ttl_seconds"             // CACHE_TTL_SECONDS (int) time to live for cached query results
	OAUTH_CALLBACK_PORT      string = "internal_oauth_callback_port"                 // OAUTH_CALLBACK_PORT (int) local port the login flow listens on for the token callback
	OAUTH_AUTHORIZATION_PATH string = "internal_oauth_authorization_path"            // OAUTH_AUTHORIZATION_PATH (string) provider entry path on the public base
)

const (
	DefaultApiUrl          = "http://localhost:8081"
	DefaultRefetchDelayMs  = 3000
	DefaultCacheTtlSeconds = 300
	DefaultOauthPath       = "/oauth2/authorization/google"
)
