// Package auth stores and resolves the GitHub token.
//
// Tokens are kept in the system keychain when one is available and in an
// AES-GCM encrypted file otherwise. Resolver picks the token for a run:
// the configured value first, then the stores, then an interactive prompt.
//
// Usage:
//
//	manager, err := auth.NewManager()
//	if err != nil {
//		return err
//	}
//	resolver := &auth.Resolver{Manager: manager, Prompter: auth.NewPrompter()}
//	token, source, err := resolver.Resolve(cfg.GitHub.Token)
//	if errors.Is(err, auth.ErrNoToken) {
//		// user entered nothing
//	}
package auth
