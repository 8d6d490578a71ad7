package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wichananm65/registration-service/internal/form"
	"github.com/wichananm65/registration-service/internal/signupui"
)

var (
	endpoint string
	timeout  time.Duration
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "signup",
	Short: "Terminal registration form",
	Long:  `Fill in first name, last name, age and email and register them with the registration service.`,
	RunE:  runSignup,
}

func init() {
	rootCmd.Flags().StringVarP(&endpoint, "endpoint", "e", "http://localhost:5000",
		"base url of the registration service")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0,
		"request timeout (0 waits indefinitely)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "",
		"write form events to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSignup(cmd *cobra.Command, args []string) error {
	logger := log.New(io.Discard, "", 0)
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "signup")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	var httpClient *http.Client
	if timeout > 0 {
		httpClient = &http.Client{Timeout: timeout}
	}
	client := form.NewClient(endpoint, httpClient)

	// Query the terminal background before the program starts so the
	// OSC 11 reply does not land in an input field.
	_ = lipgloss.HasDarkBackground()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := signupui.New(ctx, form.New(logger), client)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("running signup form: %w", err)
	}
	return nil
}
