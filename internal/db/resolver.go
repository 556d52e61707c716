package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/loadbench/internal/config"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// ConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a flag. Use $PGPASSWORD, ~/.pgpass or the connection string.
type ConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string

	Auth           string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
}

// IsEmpty returns true if no granular connection flags were provided.
// Database is excluded because -d may override the database of a connection string.
func (f *ConnFlags) IsEmpty() bool {
	return f.Host == "" && f.Port == 0 && f.Username == "" && f.SSLMode == ""
}

// EnvVars represents PostgreSQL and cloud provider environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string

	AWS_REGION          string
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string (--connection, then DATABASE_URL when no granular flags are set)
//  2. Granular flags (-h, -p, -U, -d, --sslmode)
//  3. Environment variables (PGHOST, PGPORT, ...)
//  4. loadbench.yaml connection section
//  5. Defaults (localhost:5432, sslmode=prefer)
//
// The -d flag overrides the database of a connection string. Authentication method and
// cloud parameters follow the same flag > env > yaml order.
func ResolveConnection(
	connString string,
	flags *ConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*loadbench.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connString != "" && !flags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U, --sslmode): %w",
			loadbench.ErrInvalidConfig,
		)
	}

	if connString == "" && flags.IsEmpty() {
		connString = envVars.DATABASE_URL
	}

	var cfg *loadbench.ConnectionConfig
	if connString != "" {
		parsed, err := ParseConnectionString(connString)
		if err != nil {
			return nil, fmt.Errorf("invalid connection string: %w", err)
		}
		cfg = parsed
		if flags.Database != "" {
			cfg.Database = flags.Database
		}
		if cfg.SSLMode == "" {
			cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
		}
	} else {
		resolved, err := resolveFromGranularParams(flags, envVars, pc)
		if err != nil {
			return nil, err
		}
		cfg = resolved
	}

	if err := applyAuth(cfg, flags, envVars, pc); err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveFromGranularParams(flags *ConnFlags, envVars *EnvVars, pc config.ConnectionConfig) (*loadbench.ConnectionConfig, error) {
	cfg := &loadbench.ConnectionConfig{
		AuthMethod:       loadbench.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, loadbench.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, loadbench.DefaultManagementDB)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

// applyAuth selects the authentication method and attaches cloud parameters.
// Azure credentials in the environment switch to Entra ID when no method was chosen explicitly.
func applyAuth(cfg *loadbench.ConnectionConfig, flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method, err := loadbench.ParseAuthMethod(firstNonEmpty(flags.Auth, pc.AuthMethod))
	if err != nil {
		return err
	}

	cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET

	explicit := flags.Auth != "" || pc.AuthMethod != ""
	if !explicit && (cfg.AzureTenantID != "" || cfg.AzureClientID != "") {
		method = loadbench.AuthMethodAzureEntraID
	}
	cfg.AuthMethod = method

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
