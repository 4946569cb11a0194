package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apiclient "github.com/Iryna9992004/crm-test-task-1/pkg/api/client"
)

type cliConfig struct {
	APIBaseURL string          `json:"api_base_url"`
	Identity   *apiclient.User `json:"identity,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = commandRegister(args)
	case "login":
		err = commandLogin(args)
	case "whoami":
		err = commandWhoami()
	case "logout":
		err = commandLogout()
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commandLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	apiBase := fs.String("api", "", "API base URL (default http://localhost:4000)")
	fs.Parse(args)

	cfg := resolveConfig(*apiBase)
	flow, err := newFlow(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	user, err := flow.Login(ctx, *email, *password)
	if err != nil {
		return reportAuthFailure(err)
	}

	cfg.Identity = &user
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

func commandRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	githubKey := fs.String("github-key", "", "GitHub key")
	apiBase := fs.String("api", "", "API base URL (default http://localhost:4000)")
	fs.Parse(args)

	cfg := resolveConfig(*apiBase)
	flow, err := newFlow(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	user, err := flow.Register(ctx, *username, *email, *password, *githubKey)
	if err != nil {
		return reportAuthFailure(err)
	}

	cfg.Identity = &user
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("registered %s <%s>\n", user.Username, user.Email)
	return nil
}

func commandWhoami() error {
	cfg, err := loadConfig()
	if err != nil || cfg.Identity == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", cfg.Identity.Username, cfg.Identity.Email)
	return nil
}

func commandLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Identity = nil
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

// reportAuthFailure prints per-field messages when available, then the single
// normalized failure line.
func reportAuthFailure(err error) error {
	var verr *apiclient.ValidationError
	if errors.As(err, &verr) {
		for field, message := range verr.Fields() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, message)
		}
	}
	var apiErr apiclient.APIError
	if errors.As(err, &apiErr) {
		for field, message := range apiErr.Fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, message)
		}
	}
	return errors.New(apiclient.Normalize(err))
}

func newFlow(cfg cliConfig) (*apiclient.Flow, error) {
	cli, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return apiclient.NewFlow(cli), nil
}

func resolveConfig(apiBase string) cliConfig {
	cfg, _ := loadConfig()
	if strings.TrimSpace(apiBase) != "" {
		cfg.APIBaseURL = apiBase
	} else if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:4000"
	}
	return cfg
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".authctl", "config.json"), nil
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func printUsage() {
	fmt.Println(`authctl - account service CLI

Usage:
  authctl register --username NAME --email EMAIL --password PASS --github-key KEY
  authctl login --email EMAIL --password PASS
  authctl whoami
  authctl logout

Flags:
  --api URL   API base URL (default http://localhost:4000)`)
}
