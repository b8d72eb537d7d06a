package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/embed"
	"directoryEngine/internal/models"
	"directoryEngine/internal/tui"
	"directoryEngine/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "directory-engine",
	Short: "Directory code generator and configuration service for GoHighLevel stores",
	Long: `Directory Engine turns GoHighLevel products into a browsable directory.
It generates the header and footer code pasted into a store, runs the
configuration wizard, and hosts the public submission form.

Running without a command starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var (
	generateInput  string
	generateFormat string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate directory code from a YAML configuration",
	Long: `Reads a YAML document with "config" and "styling" sections (the same
keys as the JSON API) from --input or stdin and prints the header and
footer code.`,
	RunE: runGenerate,
}

var parseEmbedCmd = &cobra.Command{
	Use:   "parse-embed [embed code or URL]",
	Short: "Show what the generators read from a form embed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParseEmbed,
}

var (
	wizardQuick    bool
	wizardLocation string
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Configure and create a directory interactively",
	RunE:  runWizard,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with defaults and a fresh session secret",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", DefaultConfigPath, "config file path")

	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "YAML file to read (default stdin)")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "text", "output format: text or json")

	wizardCmd.Flags().BoolVar(&wizardQuick, "quick", false, "use the short wizard with default styling")
	wizardCmd.Flags().StringVar(&wizardLocation, "location", "", "GHL location ID that will own the directory")
	wizardCmd.MarkFlagRequired("location")

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(serveCmd, generateCmd, parseEmbedCmd, wizardCmd, configCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, closeLog, err := NewAppLogger(config)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, config, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{
			"port":     config.Port,
			"base_url": config.BaseURL,
		}).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// directoryDocument is the input of the generate command.
type directoryDocument struct {
	Config  *models.DirectoryConfig `json:"config"`
	Styling *models.Styling         `json:"styling"`
}

// decodeDirectoryDocument reads YAML using the JSON field names of the
// models so files and API bodies share one vocabulary.
func decodeDirectoryDocument(data []byte) (models.DirectoryConfig, models.Styling, error) {
	cfg, style := models.DefaultDirectoryConfig(), models.DefaultStyling()

	var raw map[string]interface{}
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return cfg, style, fmt.Errorf("parsing yaml: %w", err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return cfg, style, fmt.Errorf("converting yaml: %w", err)
	}

	doc := directoryDocument{Config: &cfg, Styling: &style}
	dec := json.NewDecoder(bytes.NewReader(asJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return cfg, style, fmt.Errorf("invalid document: %w", err)
	}
	return cfg, style, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, generateInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	cfg, style, err := decodeDirectoryDocument(data)
	if err != nil {
		return err
	}

	code := codegen.NewGenerator(nil).Generate(cfg, style)
	out := cmd.OutOrStdout()
	switch generateFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(code)
	case "text":
		header, footer := code.Snippet()
		fmt.Fprintf(out, "<!-- Header code -->\n%s\n\n<!-- Footer code -->\n%s\n", header, footer)
		if !code.IsValid {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: configuration is incomplete, the generated code is a placeholder")
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", generateFormat)
	}
}

func runParseEmbed(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	parsed := embed.Parse(input)
	if parsed == nil {
		return errors.New("nothing to parse")
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}

func runWizard(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal belongs to the UI, so logs only go to a configured file.
	logger := NewLogger(config.LogLevel, io.Discard)
	if config.LogFile != "" {
		fileLogger, closeLog, err := NewAppLogger(config)
		if err != nil {
			return err
		}
		defer closeLog()
		logger = fileLogger
	}

	db, err := OpenDatabase(cmd.Context(), config.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	app := &App{
		DB:        db,
		Config:    config,
		Logger:    logger.Named("wizard"),
		Generator: codegen.NewGenerator(nil),
	}

	variant := wizard.VariantFull
	if wizardQuick {
		variant = wizard.VariantQuick
	}
	model := tui.NewModel(wizard.New(wizard.SlidesFor(variant), app.Generator), app.directorySubmitter(wizardLocation))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}
	if dir := model.Created(); dir != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Created directory %q (%s)\n", dir.DirectoryName, dir.ID)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
	}

	config := DefaultConfig()
	secret, err := GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generating session secret: %w", err)
	}
	config.SessionSecret = secret
	if err := config.Save(cfgFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
	return nil
}
