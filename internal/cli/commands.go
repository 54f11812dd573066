// Package cli implements the roomctl command line interface for operating
// sessions on a RoomForge server.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/roomforge/roomforge-go/internal/common/logtrace"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomctl [command] [flags]",
	Short: "roomctl - operate media sessions on a RoomForge server",
	Long: `roomctl is a command line interface for operating media sessions on a
RoomForge server. It can create sessions, inspect their participants, evict
connections or streams, and issue participant tokens.

Examples:
  # Create a session with a custom id
  roomctl session create --custom-session-id my-room

  # List active sessions
  roomctl session list

  # Show one session's participant graph
  roomctl session describe ses_123

  # Evict a participant (their published streams are purged from subscribers)
  roomctl session disconnect ses_123 con_abc

  # Issue a moderator token
  roomctl token create ses_123 --role MODERATOR`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newTokenCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(map[string]string{"error": err.Error()})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents loads configuration and sets the log level before a
// command runs. Commands that manage the config file itself skip loading.
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	logtrace.InitLogger()
	if verbose {
		logtrace.SetLevel(zerolog.DebugLevel)
	} else {
		logtrace.SetLevel(zerolog.WarnLevel)
	}

	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	skipConfig := false
	c := cmd
	for c != nil {
		if c.Name() == "config" || c.Name() == "version" {
			skipConfig = true
			break
		}
		c = c.Parent()
	}

	if !skipConfig {
		if err := LoadConfig(configFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Println("RoomForge config file not found. Configure roomctl with \"roomctl config create\" first.")
				os.Exit(1)
			}
			fmt.Printf("%s\n", err.Error())
			os.Exit(1)
		}
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// renderYAML converts a value to YAML for default (non-JSON) command output.
func renderYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return string(out), nil
}

func printYAML(v any) error {
	out, err := renderYAML(v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of roomctl",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			if jsonOutput {
				printJSON(map[string]string{
					"version":     cliVersion,
					"config_file": configPath,
				})
			} else {
				cmd.Printf("roomctl %s\n", cliVersion)
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

const cliVersion = "0.3.0"
