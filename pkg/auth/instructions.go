package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide explains how to create a personal access token
func ShowTokenGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "GITHUB TOKEN")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ghscraper calls the GitHub REST API with a personal access token.")
	fmt.Fprintln(w, "Authenticated requests get a much larger hourly quota.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 1: Open https://github.com/settings/tokens")
	fmt.Fprintln(w, "STEP 2: Generate a fine-grained token with read-only public access")
	fmt.Fprintln(w, "        (classic tokens need no scopes for public data)")
	fmt.Fprintln(w, "STEP 3: Copy the token; GitHub shows it only once")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The token is kept in the system keychain when one is available and in")
	fmt.Fprintln(w, "an encrypted file otherwise. GHSCRAPER_TOKEN or GITHUB_TOKEN override it.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
