package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type conversation interface {
	Reply(ctx context.Context, threadID, text string) string
	Reset(ctx context.Context, threadID string) error
}

type repl struct {
	conv     conversation
	threadID string
	in       io.Reader
	out      io.Writer
}

// run reads lines until EOF, a quit command or ctx cancellation
func (r *repl) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(r.out, "\nYou: ")

		select {
		case <-ctx.Done():
			return ctx.Err()

		case input, ok := <-lines:
			if !ok {
				return <-scanErr
			}

			input = strings.TrimSpace(input)
			switch strings.ToLower(input) {
			case "":
				continue
			case "quit", "exit", "q":
				return nil
			case "/reset":
				if err := r.conv.Reset(ctx, r.threadID); err != nil {
					fmt.Fprintf(r.out, "Could not reset the conversation: %v\n", err)
					continue
				}
				fmt.Fprintln(r.out, "Conversation cleared.")
				continue
			}

			fmt.Fprintf(r.out, "Assistant: %s\n", r.conv.Reply(ctx, r.threadID, input))
		}
	}
}
