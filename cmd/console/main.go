package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/armorview/go-console-framework/internal/commands"
	"github.com/armorview/go-console-framework/pkg/app"
)

func main() {
	// a .env file is optional, it just feeds the environment before viper reads it
	_ = godotenv.Load()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	engine := app.NewEngine()
	defer engine.Close()

	rootCmd := commands.NewRootCommand(engine)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
