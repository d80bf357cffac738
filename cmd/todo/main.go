// Command todo запускает менеджер задач в памяти как интерактивное меню
// или как HTTP API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoConsole/internal/app"
	"todoConsole/internal/config"
	"todoConsole/internal/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "Console todo application",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}
	rootCmd.SetVersionTemplate("todo {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Start the interactive menu (default)",
			Args:  cobra.NoArgs,
			RunE:  runMenu,
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the task API over HTTP",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
	)
	return rootCmd
}

func setup(defaultOutput string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации: %w", err)
	}
	return app.New(cfg).Init(defaultOutput)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	// логи меню по умолчанию не смешиваются с выводом на экран
	a, err := setup(logger.OutputDiscard)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	// Ctrl+C в меню завершает процесс сразу, как обычная консольная программа
	return a.RunMenu(cmd.Context(), os.Stdin, os.Stdout)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup("stderr")
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.RunServer(ctx)
}
