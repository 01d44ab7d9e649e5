package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghscraper/pkg/auth"
	"ghscraper/pkg/config"
	"ghscraper/pkg/ui"
)

var authName string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored GitHub token",
	Long: `Manage the GitHub token used by scrape.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

GHSCRAPER_TOKEN and GITHUB_TOKEN always take precedence over the stored token.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token",
	Long:  `Prompt for a GitHub personal access token and store it securely.`,
	Example: `  ghscraper auth login

  # Non-interactive
  echo "$TOKEN" | ghscraper auth login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token scrape would use",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	authCmd.PersistentFlags().StringVar(&authName, "name", auth.DefaultName, "name of the stored token")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	auth.ShowTokenGuide(cmd.OutOrStdout())

	if _, _, err := manager.Retrieve(authName); err == nil {
		ui.PrintWarning(fmt.Sprintf("A token named '%s' is already stored and will be replaced", authName))
	}

	tok, err := auth.NewPrompter().ReadToken("GitHub token: ")
	if err != nil {
		return err
	}
	if tok == "" {
		ui.Println("Token is required. Exiting...")
		return nil
	}
	if !looksLikeToken(tok) {
		ui.PrintWarning("That does not look like a GitHub token; storing it anyway")
	}

	source, err := manager.Store(authName, tok)
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Token stored in %s", source))
	ui.PrintInfo("Token", auth.MaskToken(tok))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(authName); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored token found")
			return nil
		}
		return err
	}

	ui.PrintSuccess("Token removed")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	resolver := &auth.Resolver{Name: authName}
	if manager, err := auth.NewManager(); err == nil {
		resolver.Manager = manager
	}

	tok, source, err := resolver.Resolve(cfg.GitHub.Token)
	if errors.Is(err, auth.ErrNoToken) {
		ui.PrintWarning("No token configured; scrape will prompt for one")
		ui.Println("\nTo store a token, run:\n  ghscraper auth login")
		return nil
	}
	if err != nil {
		return err
	}

	if source == auth.SourceConfig && os.Getenv("GHSCRAPER_TOKEN")+os.Getenv("GITHUB_TOKEN") != "" {
		source = "environment"
	}
	ui.PrintInfo("Token", auth.MaskToken(tok))
	ui.PrintInfo("Source", source)
	return nil
}

// looksLikeToken recognises the documented GitHub token prefixes
func looksLikeToken(tok string) bool {
	for _, prefix := range []string{"ghp_", "github_pat_", "gho_", "ghu_", "ghs_"} {
		if strings.HasPrefix(tok, prefix) {
			return true
		}
	}
	// Classic 40-character hex tokens
	return len(tok) == 40
}
