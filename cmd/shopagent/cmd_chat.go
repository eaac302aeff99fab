package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shopagent/internal/domain/agent"
	"shopagent/internal/domain/llm"
	"shopagent/internal/domain/tool"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the agent, streaming answers as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		fmt.Println("Shopify agent ready. Type a question, or \"exit\" to quit.")

		var history []llm.ChatMessage
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				break
			}

			runCtx, cancel := context.WithTimeout(ctx, a.cfg.RunTimeout)
			result, err := a.runner.Run(runCtx, agent.RunParams{
				Question:     question,
				SystemPrompt: a.systemPrompt(),
				History:      history,
				Observer:     &consoleObserver{},
			})
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				if ctx.Err() != nil {
					return nil
				}
				continue
			}
			fmt.Println()

			history = append(history,
				llm.ChatMessage{Role: "user", Content: question},
				llm.ChatMessage{Role: "assistant", Content: result.FinalAnswer},
			)
		}

		return scanner.Err()
	},
}

// consoleObserver streams tokens to stdout and tool activity to stderr.
type consoleObserver struct{}

func (o *consoleObserver) OnToken(text string) {
	fmt.Print(text)
}

func (o *consoleObserver) OnToolCall(call tool.Call) {
	fmt.Fprintf(os.Stderr, "[calling %s]\n", call.Name)
}

func (o *consoleObserver) OnToolResult(exec agent.Execution) {
	if exec.Status == agent.ExecutionStatusFailed {
		fmt.Fprintf(os.Stderr, "[%s failed: %s]\n", exec.ToolName, exec.ErrorMessage)
	}
}
