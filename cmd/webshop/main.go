package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"webshop/internal/app"
	"webshop/internal/config"
	"webshop/internal/demo"
	"webshop/internal/logging"
	"webshop/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "webshop",
		Short:        "Console harness for the webshop",
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd(), newDemoCmd(), newLoginCmd())
	return root
}

// openApp wires the shop from the environment, logging to the command's
// stderr so scenario output stays clean.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg := config.Load()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	return app.New(cmd.Context(), cfg, logger)
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file-or-url]",
		Short: "Insert the starter catalog and accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var source string
			if len(args) == 1 {
				source = args[0]
			}
			data, err := seed.Source(cmd.Context(), source)
			if err != nil {
				return err
			}
			result, err := seed.Run(cmd.Context(), a.Store, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories, %d books, %d users\n",
				result.Categories, result.Books, result.Users)
			return nil
		},
	}
}

func newDemoCmd() *cobra.Command {
	var seedFirst bool
	cmd := &cobra.Command{
		Use:   "demo [1|2|3]",
		Short: "Replay a walkthrough scenario, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios := demo.Scenarios
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("scenario must be a number: %q", args[0])
				}
				scenarios = []int{n}
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if seedFirst {
				data, err := seed.Default()
				if err != nil {
					return err
				}
				if _, err := seed.Run(cmd.Context(), a.Store, data); err != nil {
					return err
				}
			}

			runner := demo.NewRunner(a.Shop, cmd.OutOrStdout())
			for _, n := range scenarios {
				if err := runner.Run(cmd.Context(), n); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seedFirst, "seed", true, "seed the starter catalog before running")
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Check a user's credentials and start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.Shop.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			role := "customer"
			if user.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d, %s)\n", user.Name, user.ID, role)
			return nil
		},
	}
}

// readPassword reads without echo from a terminal, or one line from a pipe.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return strings.TrimSpace(string(bytePassword)), nil
}
