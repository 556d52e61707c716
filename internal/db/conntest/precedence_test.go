//go:build conntest

package conntest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loadbench/internal/db"
)

func TestPrecedence_FlagOverridesEnv(t *testing.T) {
	config := parseStdConnString(t)

	t.Setenv("PGHOST", "unreachable.invalid")
	t.Setenv("PGPASSWORD", "wrong-password-from-env")

	flags := &db.ConnFlags{
		Host:     config.Host,
		Port:     config.Port,
		Username: config.Username,
		Database: config.Database,
		SSLMode:  "disable",
	}

	resolved, err := db.ResolveConnection("", flags, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)

	assert.Equal(t, config.Host, resolved.Host)
	assert.Equal(t, "wrong-password-from-env", resolved.Password)

	resolved.Password = config.Password

	pool := connectWithConfig(t, resolved)
	pingSucceeds(t, pool)
}

func TestPrecedence_ConnectionStringWithDatabaseOverride(t *testing.T) {
	config := parseStdConnString(t)

	resolved, err := db.ResolveConnection(stdContainer.ConnString, &db.ConnFlags{Database: "postgres"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", resolved.Database)
	assert.Equal(t, config.Host, resolved.Host)

	pool := connectWithConfig(t, resolved)
	pingSucceeds(t, pool)
}
