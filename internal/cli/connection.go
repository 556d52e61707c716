package cli

import (
	"os"

	"github.com/vvka-141/loadbench/internal/config"
	"github.com/vvka-141/loadbench/internal/db"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// ConnectionStringEnvVar holds a full connection string and wins over DATABASE_URL.
const ConnectionStringEnvVar = "LOADBENCH_CONNECTION_STRING"

// connectionStringFromEnv returns the first non-empty connection string from
// LOADBENCH_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv(ConnectionStringEnvVar); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection turns the connection flags into a ConnectionConfig.
// An environment connection string is only consulted when no granular flag was given,
// so -h/-p/-U always beat a DATABASE_URL left in the shell.
func resolveConnection(
	connStringFlag string,
	flags *db.ConnFlags,
	projectConfig *config.ProjectConfig,
	logger loadbench.Logger,
) (*loadbench.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" && flags.IsEmpty() {
		connString = connectionStringFromEnv()
	}

	connConfig, err := db.ResolveConnection(connString, flags, db.LoadFromEnvironment(), projectConfig)
	if err != nil {
		return nil, err
	}

	logConnectionVerbose(logger, connConfig)
	return connConfig, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger loadbench.Logger, c *loadbench.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", c.Host)
	logger.Verbose("  Port: %d", c.Port)
	logger.Verbose("  User: %s", c.Username)
	logger.Verbose("  Database: %s", c.Database)
	logger.Verbose("  SSL Mode: %s", c.SSLMode)
	logger.Verbose("  Auth Method: %s", c.AuthMethod)
}
