package config

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Port          string
	MetricsPrefix string
	CORSOrigins   []string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:          getEnv("PORT", "8080"),
		MetricsPrefix: getEnv("METRICS_PREFIX", "asynckit"),
		CORSOrigins:   getEnvStringSlice("CORS_ORIGINS", []string{"*"}),
	}
}
