package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/server"
	"github.com/legisai/legisai/internal/service"
	"github.com/legisai/legisai/internal/telemetry"
	"github.com/legisai/legisai/internal/tools"
	"github.com/spf13/cobra"
)

var (
	noTools    bool
	trace      bool
	askTimeout time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and exit",
	Long: `Runs one question through the turn loop and prints the answer.

Example:
  legisai ask "Who are the senators from Washington?"
  legisai ask --trace "What bills has the 119th congress passed on energy?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session on the terminal",
	Long: `Reads questions from stdin, one per line, within a single session.
Type /reset to clear the conversation and /exit to quit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog offered to the model",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	for _, c := range []*cobra.Command{askCmd, chatCmd} {
		c.Flags().BoolVar(&noTools, "no-tools", false, "answer from the model alone, without Congress.gov tools")
		c.Flags().BoolVar(&trace, "trace", false, "print telemetry events after each answer")
		c.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "per-question timeout")
	}
	toolsCmd.Flags().Bool("json", false, "print parameter schemas as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := server.Build(ctx, cfg, server.BuildOptions{Trace: trace})
	if err != nil {
		return err
	}
	defer stack.Close()

	sess := stack.Sessions.Create()
	return answer(ctx, cmd.OutOrStdout(), stack, sess, strings.Join(args, " "))
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := server.Build(ctx, cfg, server.BuildOptions{Trace: trace})
	if err != nil {
		return err
	}
	defer stack.Close()

	out := cmd.OutOrStdout()
	sess := stack.Sessions.Create()
	fmt.Fprintf(out, "LegisAI (%s), session %s\n", stack.Agent.ModelName(), sess.ID())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			sess.Reset()
			fmt.Fprintln(out, "conversation cleared")
			continue
		}
		if err := answer(ctx, out, stack, sess, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func answer(ctx context.Context, out io.Writer, stack *server.Stack, sess *agent.Session, question string) error {
	ctx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	seen := len(stack.Events())
	res, err := sess.Ask(ctx, question, !noTools)
	if trace {
		printEvents(out, stack.Events()[seen:])
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, res.Answer)
	if res.Degraded() {
		fmt.Fprintf(out, "\n(fallback %s: %s)\n", res.Fallback, res.Reason)
	}
	return nil
}

func printEvents(out io.Writer, events []telemetry.Event) {
	enc := json.NewEncoder(out)
	for _, ev := range events {
		_ = enc.Encode(ev)
	}
}

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	// listing needs no credentials; calls are never made
	reg, err := tools.NewRegistry(service.NewCongressService(cfg.CongressBaseURL, cfg.CongressAPIKey, nil, 0))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, spec := range reg.List() {
		if asJSON {
			b, err := json.MarshalIndent(map[string]any{
				"name":        spec.Name,
				"description": spec.Description,
				"parameters":  spec.Schema(),
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			continue
		}

		params := make([]string, 0, len(spec.Params))
		for _, name := range spec.ParamNames() {
			p := spec.Params[name]
			if p.Required {
				params = append(params, name+"*")
			} else {
				params = append(params, name)
			}
		}
		fmt.Fprintf(out, "%-36s %s\n", spec.Name, strings.Join(params, ", "))
	}
	return nil
}
