package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a config file interactively",
	Long: `Generate a config.yaml interactively.

You will be prompted for:
  - Root directory to serve
  - Server port
  - Whether to enable directory listings (and listing credentials)
  - Whether to enable compression`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config.yaml")
	rootCmd.AddCommand(initCmd)
}

// initFileConfig mirrors the config package's layout with yaml tags, so the
// generated file unmarshals cleanly through viper.
type initFileConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Static struct {
		Root        string `yaml:"root"`
		Compression struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"compression"`
	} `yaml:"static"`
	Listing struct {
		Enabled bool `yaml:"enabled"`
		Auth    struct {
			Users map[string]string `yaml:"users,omitempty"`
		} `yaml:"auth"`
	} `yaml:"listing"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func runInit(_ *cobra.Command, _ []string) error {
	const configPath = "config.yaml"

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
	}

	var cfg initFileConfig
	cfg.Log.Level = "info"

	rootPrompt := promptui.Prompt{
		Label:   "Root directory to serve",
		Default: "./public",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("root directory is required")
			}
			return nil
		},
	}
	root, err := rootPrompt.Run()
	if err != nil {
		return promptErr(err)
	}
	cfg.Static.Root = root

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: "8714",
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil || port < 1 || port > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return promptErr(err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	listing, err := confirm("Enable directory listings")
	if err != nil {
		return err
	}
	cfg.Listing.Enabled = listing

	if listing {
		protect, err := confirm("Protect listings with Basic auth")
		if err != nil {
			return err
		}
		if protect {
			users, err := promptUsers()
			if err != nil {
				return err
			}
			cfg.Listing.Auth.Users = users
		}
	}

	compression, err := confirm("Enable compression")
	if err != nil {
		return err
	}
	cfg.Static.Compression.Enabled = compression

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}

func promptUsers() (map[string]string, error) {
	users := make(map[string]string)

	for {
		userPrompt := promptui.Prompt{
			Label: "Username (empty to finish)",
		}
		username, err := userPrompt.Run()
		if err != nil {
			return nil, promptErr(err)
		}
		if strings.TrimSpace(username) == "" {
			if len(users) == 0 {
				fmt.Println("No users added; listings will be public.")
			}
			return users, nil
		}

		secretPrompt := promptui.Prompt{
			Label: fmt.Sprintf("Secret for %s", username),
			Mask:  '*',
			Validate: func(input string) error {
				if input == "" {
					return errors.New("secret must not be empty")
				}
				return nil
			},
		}
		secret, err := secretPrompt.Run()
		if err != nil {
			return nil, promptErr(err)
		}

		users[username] = secret
	}
}

func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err != nil {
		// IsConfirm reports "no" as ErrAbort.
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, promptErr(err)
	}
	return true, nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return errors.New("cancelled")
	}
	return err
}
