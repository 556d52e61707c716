package loadbench

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Scenario identifies one benchmark configuration. Each scenario produces exactly
// one result document.
type Scenario struct {
	DB       string
	Mode     string
	Variant  string
	Language string
}

// Name joins the identity fields into the scenario's display name,
// e.g. "PostgreSQL_Boring_Plain_Go".
func (s Scenario) Name() string {
	return strings.Join([]string{s.DB, s.Mode, s.Variant, s.Language}, "_")
}

// LoadConfig contains all parameters needed for a single load run.
type LoadConfig struct {
	// CSVPath is the input file with a header row and the 13 product columns
	CSVPath string

	// Table is the target table, truncated before the run
	Table string

	// BatchSize is the number of rows per INSERT statement
	BatchSize int

	// ResultsDir receives the result document
	ResultsDir string

	// Scenario labels the run in the result document
	Scenario Scenario

	// CreateTable creates the target table when it does not exist
	CreateTable bool

	// Verify compares SELECT count(*) with the inserted row count after the load
	Verify bool

	// ExpectRows sizes the progress bar; 0 disables it
	ExpectRows int

	// Overwrite replaces an existing result document
	Overwrite bool

	// Timeout is the global timeout for the whole run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.CSVPath == "" {
		errs = append(errs, fmt.Errorf("CSVPath is required: %w", ErrInvalidConfig))
	}

	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d: %w", c.BatchSize, ErrInvalidConfig))
	} else if c.BatchSize > MaxBatchSize {
		errs = append(errs, fmt.Errorf("batch size %d exceeds maximum %d: %w", c.BatchSize, MaxBatchSize, ErrInvalidConfig))
	}

	if c.ResultsDir == "" {
		errs = append(errs, fmt.Errorf("ResultsDir is required: %w", ErrInvalidConfig))
	}

	if c.ExpectRows < 0 {
		errs = append(errs, fmt.Errorf("expected rows cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ReportConfig contains all parameters needed for a report run.
type ReportConfig struct {
	// ResultsDir is scanned for *.json result documents
	ResultsDir string

	// OutputDir receives PNG charts, placeholder notes and the summary table
	OutputDir string

	// MaxPoints caps the number of samples drawn per trace
	MaxPoints int

	// Summary enables writing summary.md next to the charts
	Summary bool

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the ReportConfig has all required fields and valid values.
func (c *ReportConfig) Validate() error {
	var errs []error

	if c.ResultsDir == "" {
		errs = append(errs, fmt.Errorf("ResultsDir is required: %w", ErrInvalidConfig))
	}

	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("OutputDir is required: %w", ErrInvalidConfig))
	}

	if c.MaxPoints <= 0 {
		errs = append(errs, fmt.Errorf("max points must be positive, got %d: %w", c.MaxPoints, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWS IAM authentication (AuthMethodAWSIAM)
	AWSRegion string

	// Google Cloud SQL IAM authentication (AuthMethodGoogleIAM), project:region:instance
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod converts the --auth flag value into an AuthMethod.
// An empty string selects standard authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}
