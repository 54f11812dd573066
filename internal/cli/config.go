package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Environment variables that override the config file. A .env file in the
// working directory is loaded first, so repo-local secrets work without
// touching the shell environment.
const (
	envServerURL = "ROOMFORGE_SERVER_URL"
	envAPISecret = "ROOMFORGE_API_SECRET"
)

// Config holds the server connection details for roomctl. It satisfies the
// transport's Configurator interface, so it is handed to the REST client
// directly.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the URL and port of the RoomForge server
	ServerURL string `yaml:"server_url"`
	// APISecret is the shared secret for the RoomForge server
	APISecret string `yaml:"api_secret"`
}

var config *Config

// GetServerURL implements httpclient.Configurator.
func (cfg *Config) GetServerURL() string {
	return cfg.ServerURL
}

// GetAPISecret implements httpclient.Configurator.
func (cfg *Config) GetAPISecret() string {
	return cfg.APISecret
}

// GetDefaultConfigPath returns the default path for the config file,
// using the OS-specific config directory (e.g., ~/.config/roomforge on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "roomforge", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
// If no file is specified, it uses the default config location.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	_ = godotenv.Load() // no error if .env doesn't exist

	var c Config
	yamlStr, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(yamlStr, &c); err != nil {
			return fmt.Errorf("unable to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && os.Getenv(envServerURL) != "":
		// No config file, but the environment carries the connection details.
	default:
		return fmt.Errorf("unable to read config file: %w", err)
	}

	applyEnvOverrides(&c)

	if err := c.Validate(); err != nil {
		return err
	}

	config = &c
	return nil
}

// applyEnvOverrides lets the environment take precedence over the file.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv(envServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(envAPISecret); v != "" {
		c.APISecret = v
	}
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// Validate checks for required fields and proper formatting
func (cfg *Config) Validate() error {
	if cfg.ServerURL == "" {
		return errors.New("server_url is required")
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return errors.New("server_url must start with http:// or https://")
	}
	if cfg.APISecret == "" {
		return errors.New("api_secret is required")
	}
	return nil
}

// newConfigCmd manages the roomctl configuration file.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config [command]",
		Short: "Manage roomctl configuration",
	}

	var serverURL, apiSecret string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the roomctl configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{
				Version:   "v1",
				ServerURL: serverURL,
				APISecret: apiSecret,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := configFile
			if path == "" {
				var err error
				path, err = GetDefaultConfigPath()
				if err != nil {
					return err
				}
			}
			if err := cfg.WriteConfig(path); err != nil {
				return err
			}
			okLabel.Printf("Config written to %s\n", path)
			return nil
		},
	}
	createCmd.Flags().StringVar(&serverURL, "server-url", "", "RoomForge server URL (http[s]://host:port)")
	createCmd.Flags().StringVar(&apiSecret, "api-secret", "", "RoomForge API secret")
	createCmd.MarkFlagRequired("server-url")
	createCmd.MarkFlagRequired("api-secret")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(configFile); err != nil {
				if jsonOutput {
					printJSON(map[string]string{"error": "config cannot be loaded: " + err.Error()})
				} else {
					errorLabel.Fprintf(os.Stderr, "Error: config cannot be loaded: %v\n", err)
				}
				return ErrAlreadyHandled
			}
			cfg := GetConfig()
			if jsonOutput {
				printJSON(map[string]string{"server_url": cfg.ServerURL})
			} else {
				cmd.Printf("Server: %s\n", cfg.ServerURL)
			}
			return nil
		},
	}

	configCmd.AddCommand(createCmd)
	configCmd.AddCommand(showCmd)
	return configCmd
}
