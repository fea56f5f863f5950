// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command elmsym answers completion, hover, and definition queries for Elm
// projects from the command line or as a JSON-lines server.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "elmsym",
		Short: "Symbol index and resolver for Elm projects",
		Long:  "elmsym scans Elm source files to answer completion, hover, and go-to-definition queries without a compiler.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setupLogging(cmd.Context(), cmd.ErrOrStderr(), viper.GetString("log-level"), !viper.GetBool("no-color"))
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("import-strategy", "dynamicLookup", "How imports map to files: ignore, dotIsFolder, dynamicLookup, semiDynamicLookup")
	flags.StringSlice("source-dirs", nil, "Source directories overriding the project manifest")
	flags.Int("max-scan-window", 10, "Declaration lines kept as documentation")
	flags.Bool("include-params", false, "Keep parameters in completion names")
	flags.Bool("intellisense", true, "Resolve symbols from project files")
	flags.Int("concurrency", 0, "Parallel file reads (0 uses the CPU count)")
	flags.StringP("format", "f", "json", "Output format: json or yaml")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.Bool("no-color", false, "Disable colored log output")

	// Bind flags to viper.
	for _, name := range []string{
		"import-strategy", "source-dirs", "max-scan-window", "include-params",
		"intellisense", "concurrency", "format", "log-level", "no-color",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: ELMSYM_IMPORT_STRATEGY, ELMSYM_LOG_LEVEL, etc.
	viper.SetEnvPrefix("ELMSYM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".elmsym")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newQueryCmd(queryComplete))
	rootCmd.AddCommand(newQueryCmd(queryHover))
	rootCmd.AddCommand(newDefinitionCmd())
	rootCmd.AddCommand(newModulesCmd())
	rootCmd.AddCommand(newSymbolsCmd())
	rootCmd.AddCommand(newOutlineCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print elmsym version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "elmsym %s\n", version)
		},
	}
}
