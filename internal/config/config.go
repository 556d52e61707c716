package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ScenarioConfig labels the result document written by a load run.
type ScenarioConfig struct {
	DB       string `yaml:"db"`
	Mode     string `yaml:"mode"`
	Variant  string `yaml:"variant"`
	Language string `yaml:"language"`
}

type LoadConfig struct {
	Table      string `yaml:"table"`
	BatchSize  int    `yaml:"batch_size"`
	ResultsDir string `yaml:"results_dir"`
	Timeout    string `yaml:"timeout"`
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	MaxPoints int    `yaml:"max_points"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	Load       LoadConfig       `yaml:"load"`
	Report     ReportConfig     `yaml:"report"`
}

const ConfigFileName = "loadbench.yaml"

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file at an explicit path.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
