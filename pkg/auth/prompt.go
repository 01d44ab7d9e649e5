package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ghscraper/pkg/config"
)

// ErrNoToken is returned when no source produced a token
var ErrNoToken = errors.New("token is required")

// TokenReader asks the user for a token
type TokenReader interface {
	ReadToken(prompt string) (string, error)
}

// Prompter reads a token from a terminal without echo, or a plain line
// when input is not a terminal
type Prompter struct {
	in  io.Reader
	out io.Writer
	fd  int

	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// NewPrompter prompts on stderr and reads from stdin
func NewPrompter() *Prompter {
	return &Prompter{
		in:           os.Stdin,
		out:          os.Stderr,
		fd:           int(os.Stdin.Fd()),
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// NewLinePrompter reads lines from in and writes prompts to out
func NewLinePrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:           in,
		out:          out,
		fd:           -1,
		isTerminal:   func(int) bool { return false },
		readPassword: term.ReadPassword,
	}
}

// ReadToken prints prompt and returns the trimmed input. Empty input is
// returned as "" without error.
func (p *Prompter) ReadToken(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if p.isTerminal(p.fd) {
		secret, err := p.readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Token sources reported by Resolve
const (
	SourceConfig = "config"
	SourcePrompt = "prompt"
)

// Resolver finds the token to run with
type Resolver struct {
	// Manager holds stored tokens; nil skips stored lookups
	Manager *Manager
	// Prompter asks interactively; nil disables prompting
	Prompter TokenReader
	// Name selects the stored credential; DefaultName when empty
	Name string
}

// Resolve returns the first token found in configured, the credential
// stores, then the prompt, along with where it came from. It returns
// ErrNoToken when the user enters nothing.
func (r *Resolver) Resolve(configured string) (string, string, error) {
	if token := strings.TrimSpace(configured); token != "" {
		return token, SourceConfig, nil
	}

	if r.Manager != nil {
		if cred, source, err := r.Manager.Retrieve(r.Name); err == nil && cred.Token != "" {
			return cred.Token, source, nil
		}
	}

	if r.Prompter == nil {
		return "", "", ErrNoToken
	}

	token, err := r.Prompter.ReadToken("Enter your GitHub token: ")
	if err != nil {
		return "", "", err
	}
	if token == "" {
		return "", "", ErrNoToken
	}
	return token, SourcePrompt, nil
}

// MaskToken keeps the first and last four characters of a token
func MaskToken(token string) string {
	return config.MaskSecret(token)
}
