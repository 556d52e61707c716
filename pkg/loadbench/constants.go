package loadbench

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load/report completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitInsertFailed    = 13 // Batch insert or commit failed
	ExitCSVMissing      = 14 // Input CSV file not found
	ExitResultExists    = 15 // Result file already written for this scenario
)

const (
	// DefaultBatchSize is the number of CSV rows sent in one INSERT statement.
	DefaultBatchSize = 1000

	// MaxBatchSize keeps a single INSERT under PostgreSQL's 65535 bind parameter limit
	// (13 columns per row).
	MaxBatchSize = 65535 / ColumnCount

	// ColumnCount is the number of columns in the products CSV and table.
	ColumnCount = 13

	// DefaultTable is the target table when none is configured.
	DefaultTable = "products_postgres_boring_plain"

	// DefaultResultsDir is where load writes result documents and report reads them.
	DefaultResultsDir = "results"

	// DefaultGraphsDir is where report writes charts.
	DefaultGraphsDir = "graphs"

	// DefaultMaxPoints caps the number of samples drawn in a trace chart.
	DefaultMaxPoints = 1200

	// ProgressLogInterval is how many rows pass between progress log lines.
	ProgressLogInterval = 100_000

	// DefaultTimeout bounds a whole load run.
	DefaultTimeout = 2 * time.Hour

	// DefaultManagementDB is the database used when none is given.
	DefaultManagementDB = "postgres"

	// TokenExpiryWarning is the remaining token lifetime below which a warning is logged.
	TokenExpiryWarning = 5 * time.Minute
)

// Default scenario identity, used when neither flags nor loadbench.yaml provide one.
const (
	DefaultDBLabel  = "PostgreSQL"
	DefaultMode     = "Boring"
	DefaultVariant  = "Plain"
	DefaultLanguage = "Go"
)
