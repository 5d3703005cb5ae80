// Package cli holds the interactive prompts around the core: picking or
// creating an account, then driving a session from stdin. Plumbing only; all
// protocol behavior lives in the session and authapi packages.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"messenger/internal/authapi"
	"messenger/internal/credentials"
	"messenger/internal/session"
	"messenger/internal/userlist"
)

type CLI struct {
	auth      *authapi.Authenticator
	users     *userlist.File
	boot      *session.Bootstrapper
	creds     credentials.Store
	queueSize int
	logger    *slog.Logger

	in  *bufio.Reader
	out io.Writer
}

func New(auth *authapi.Authenticator, users *userlist.File, boot *session.Bootstrapper, creds credentials.Store, queueSize int, logger *slog.Logger) *CLI {
	return &CLI{
		auth:      auth,
		users:     users,
		boot:      boot,
		creds:     creds,
		queueSize: queueSize,
		logger:    logger.With(slog.String("component", "cli")),
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run walks the user through authentication, opens the session connection,
// and hands off to the interactive message loop.
func (c *CLI) Run(ctx context.Context) error {
	username, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	conn, err := c.boot.Connect(ctx, username)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	fmt.Fprintf(c.out, "Connected as %s. Type 'recipient message' to send, /quit to exit.\n", username)
	return c.sessionLoop(ctx, conn, username)
}

func (c *CLI) authenticate(ctx context.Context) (string, error) {
	fmt.Fprint(c.out, "Welcome to the messenger client.\n1. New account\n2. Login\n> ")
	choice, err := c.readLine()
	if err != nil {
		return "", err
	}

	switch choice {
	case "1":
		return c.newAccount(ctx)
	case "2":
		return c.login(ctx)
	default:
		return "", fmt.Errorf("invalid option %q", choice)
	}
}

func (c *CLI) newAccount(ctx context.Context) (string, error) {
	username, err := c.prompt("Username: ")
	if err != nil {
		return "", err
	}
	email, err := c.prompt("Email: ")
	if err != nil {
		return "", err
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return "", err
	}

	if err := c.auth.NewAccount(ctx, username, email, password); err != nil {
		return "", err
	}
	fmt.Fprintln(c.out, "Account created, logging in...")
	return username, nil
}

func (c *CLI) login(ctx context.Context) (string, error) {
	known, err := c.users.List()
	if err != nil {
		return "", err
	}

	for i, name := range known {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, name)
	}
	fmt.Fprintf(c.out, "%d. Login with another account\n> ", len(known)+1)

	choice, err := c.readLine()
	if err != nil {
		return "", err
	}
	selected, err := strconv.Atoi(choice)
	if err != nil || selected < 1 || selected > len(known)+1 {
		return "", fmt.Errorf("invalid option %q", choice)
	}

	if selected <= len(known) {
		// Credentials for a known user are already stored; the websocket
		// upgrade re-authenticates them.
		return known[selected-1], nil
	}

	username, err := c.prompt("Username: ")
	if err != nil {
		return "", err
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return "", err
	}
	if err := c.auth.Login(ctx, username, password); err != nil {
		return "", err
	}
	return username, nil
}

func (c *CLI) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

func (c *CLI) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) readPassword(label string) (string, error) {
	fmt.Fprint(c.out, label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return c.readLine()
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(password)), nil
}
