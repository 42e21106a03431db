package main

import (
	"fmt"
	"os"

	"hospital-admin/internal/domain/entity"
	"hospital-admin/internal/engine"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "policyctl",
		Short:         "Inspect and validate hospital capability tables",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(canCmd())

	return rootCmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a capability table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d roles)\n", args[0], len(registry.Table()))
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a capability table, or the built-in one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			registry, err := loadRegistry(file)
			if err != nil {
				return err
			}
			for _, line := range registry.Table().Describe() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func canCmd() *cobra.Command {
	var (
		file  string
		write bool
	)

	cmd := &cobra.Command{
		Use:   "can <role> <resource> <target>",
		Short: "Evaluate a single staff decision against a table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(file)
			if err != nil {
				return err
			}

			intent := engine.Read
			if write {
				intent = engine.Write
			}

			// Ownership is out of scope here; the actor id is arbitrary
			actor := entity.Actor{ID: uuid.New(), Role: entity.Role(args[0])}
			decision := engine.New(registry).Evaluate(actor, engine.ResourceType(args[1]), engine.Target(args[2]), intent, nil)
			if decision.Allowed {
				fmt.Fprintln(cmd.OutOrStdout(), "allowed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "denied: %v\n", decision.Reason)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "capability table file (defaults to the built-in table)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "evaluate write intent instead of read")

	return cmd
}

func loadRegistry(file string) (*engine.Registry, error) {
	table := engine.DefaultTable()
	if file != "" {
		loaded, err := engine.LoadTable(file)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	return engine.NewRegistry(table)
}
