package config

// Config aggregates the capability-specific configuration interfaces.
// The concrete value returned by New reads the environment exactly once at
// startup and is immutable afterwards; it is passed explicitly into the
// services that need it rather than held as a mutable singleton.
type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetDatabaseURL() string
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpAccount() string
	GetSmtpPassword() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
	Cors
}

func New() Config {
	return mainConfig{
		EnvVars:  loadEnvVars(),
		OAuth:    loadOAuth(),
		Security: loadSecurity(),
		Cors:     loadCors(),
	}
}
