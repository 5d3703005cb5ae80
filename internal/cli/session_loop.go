package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messenger/internal/protocol"
	"messenger/internal/session"
)

// sessionLoop runs the session and feeds it outbound messages from stdin
// until /quit or the connection ends.
func (c *CLI) sessionLoop(ctx context.Context, conn *session.Conn, username string) error {
	dispatcher := session.NewDispatcher(c.creds, c.logger)
	sess := session.New(conn, dispatcher, c.queueSize, c.logger)

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	for {
		line, err := c.readLine()
		if err != nil {
			sess.CloseSend()
			break
		}
		if line == "" {
			continue
		}
		if line == "/quit" {
			sess.CloseSend()
			break
		}

		recipient, content, ok := strings.Cut(line, " ")
		if !ok || strings.TrimSpace(content) == "" {
			fmt.Fprintln(c.out, "usage: recipient message")
			continue
		}

		payload, err := protocol.NewChatMessage(username, recipient, strings.TrimSpace(content)).Encode()
		if err != nil {
			return err
		}
		if err := sess.Enqueue(ctx, payload); err != nil {
			if errors.Is(err, session.ErrSessionClosed) || errors.Is(err, session.ErrQueueClosed) {
				break
			}
			return err
		}
	}

	err := <-runErr
	fmt.Fprintf(c.out, "Session ended (state: %s).\n", dispatcher.State())
	return err
}
