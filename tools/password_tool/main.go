package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"sysdash/internal/config"
	"sysdash/internal/middleware"
)

const minPasswordLength = 8

func main() {
	configPath := flag.String("config", config.DefaultFileName, "Path to sysdash.config")
	password := flag.String("password", "", "New access password (leave blank to type securely)")
	disable := flag.Bool("disable", false, "Turn authentication off and clear the stored hash")
	flag.Parse()

	cfgPath, err := filepath.Abs(strings.TrimSpace(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to resolve config path: %v\n", err)
		os.Exit(1)
	}

	if *disable {
		if err := disableAuth(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to update config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Authentication disabled in %s.\n", cfgPath)
		return
	}

	pwd, err := resolvePassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "password error: %v\n", err)
		os.Exit(1)
	}
	if err := setPassword(cfgPath, pwd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to update config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Access password updated and authentication enabled in %s.\n", cfgPath)
	fmt.Println("Restart sysdash for the change to take effect.")
}

// setPassword stores the bcrypt hash of pwd, enables auth and makes sure a
// signing secret exists. A missing config file is created with defaults.
func setPassword(cfgPath, pwd string) error {
	if _, err := config.Bootstrap(cfgPath); err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	hash, err := middleware.HashPassword(pwd)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	cfg.AccessPasswordHash = hash
	cfg.AuthEnabled = true
	if _, err := cfg.EnsureJWTSecret(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(cfgPath, cfg)
}

func disableAuth(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.AuthEnabled = false
	cfg.AccessPasswordHash = ""
	return config.Save(cfgPath, cfg)
}

func resolvePassword(input string) (string, error) {
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		return checkLength(trimmed)
	}

	first, err := promptPassword("Enter new password: ")
	if err != nil {
		return "", err
	}
	second, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return checkLength(first)
}

func checkLength(pwd string) (string, error) {
	if len(pwd) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return pwd, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	text, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
