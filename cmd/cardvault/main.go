package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/cardvault/internal/bindings"
	"github.com/unkn0wn-root/cardvault/internal/config"
	"github.com/unkn0wn-root/cardvault/internal/scryfall"
	"github.com/unkn0wn-root/cardvault/internal/storage"
	"github.com/unkn0wn-root/cardvault/internal/telemetry"
	"github.com/unkn0wn-root/cardvault/internal/theme"
	"github.com/unkn0wn-root/cardvault/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		dbPath          string
		importPath      string
		fetchSetsRaw    string
		fetchCardsRaw   string
		setCode         string
		showVersion     bool
		writeSettings   bool
		noColor         bool
		traceOTEndpoint string
		traceOTInsecure bool
		traceOTService  string
	)

	telemetryCfg := telemetry.ConfigFromEnv(os.Getenv)
	traceOTEndpoint = telemetryCfg.Endpoint
	traceOTInsecure = telemetryCfg.Insecure
	traceOTService = telemetryCfg.ServiceName

	flag.StringVar(&dbPath, "db", "", "Path to the collection database")
	flag.StringVar(&importPath, "import", "", "Import a Scryfall bulk JSON file into the catalog")
	flag.StringVar(&fetchSetsRaw, "fetch-set", "", "Fetch sets from Scryfall (comma/space separated codes)")
	flag.StringVar(&fetchCardsRaw, "fetch-card", "", "Fetch single printings from Scryfall by id")
	flag.StringVar(&setCode, "set", "", "Only show printings of this set")
	flag.BoolVar(&showVersion, "version", false, "Show cardvault version")
	flag.BoolVar(&noColor, "no-color", false, "Render without colours")
	flag.BoolVar(&writeSettings, "write-settings", false, "Write the effective settings file and exit")
	flag.StringVar(
		&traceOTEndpoint,
		"trace-otel-endpoint",
		traceOTEndpoint,
		"OTLP collector endpoint for submission spans",
	)
	flag.BoolVar(&traceOTInsecure, "trace-otel-insecure", traceOTInsecure, "Disable TLS for OTLP trace export")
	flag.StringVar(
		&traceOTService,
		"trace-otel-service",
		traceOTService,
		"Override service.name resource attribute for exported spans",
	)
	flag.Parse()

	telemetryCfg.Endpoint = strings.TrimSpace(traceOTEndpoint)
	telemetryCfg.Insecure = traceOTInsecure
	telemetryCfg.ServiceName = strings.TrimSpace(traceOTService)
	telemetryCfg.Version = version

	if showVersion {
		fmt.Printf("cardvault %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	settings, settingsFile, settingsErr := config.LoadSettings()
	if settingsErr != nil {
		log.Printf("settings load error: %v", settingsErr)
	}
	if dbPath != "" {
		settings.Database = dbPath
	}
	if writeSettings {
		if settingsErr != nil {
			fmt.Fprintf(os.Stderr, "not overwriting %s: %v\n", settingsFile.Path, settingsErr)
			os.Exit(1)
		}
		if err := config.SaveSettings(settings, settingsFile); err != nil {
			fmt.Fprintf(os.Stderr, "write settings: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Settings written to %s\n", settingsFile.Path)
		os.Exit(0)
	}

	path := settings.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("database dir: %v", err)
	}
	db, err := storage.Open(storage.DefaultConfig(path))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("database close: %v", err)
		}
	}()

	if importPath != "" || fetchSetsRaw != "" || fetchCardsRaw != "" {
		if err := runImports(db.Cards(), importPath, splitList(fetchSetsRaw), splitList(fetchCardsRaw)); err != nil {
			fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
			os.Exit(1)
		}
	}

	closeLog := redirectLog(config.LogPath())
	defer closeLog()

	var inst telemetry.Instrumenter = telemetry.Noop()
	provider, err := telemetry.New(telemetryCfg)
	if err != nil {
		if telemetryCfg.Enabled() {
			log.Printf("telemetry init error: %v", err)
		}
	} else {
		inst = provider
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
				log.Printf("telemetry shutdown: %v", shutdownErr)
			}
		}()
	}

	bindingMap, _, bindingErr := bindings.Load(config.Dir())
	if bindingErr != nil {
		log.Printf("bindings load error: %v", bindingErr)
		bindingMap = bindings.DefaultMap()
	}

	themeCatalog, themeErr := theme.LoadCatalog([]string{filepath.Join(config.Dir(), "themes")})
	if themeErr != nil {
		log.Printf("theme load error: %v", themeErr)
	}
	def, ok := themeCatalog.Resolve(strings.ToLower(settings.DefaultTheme))
	if !ok && settings.DefaultTheme != "" {
		log.Printf("theme %q not found; using built-in default", settings.DefaultTheme)
	}
	th := def.Theme
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	model := ui.New(ui.Config{
		Cards:        db.Cards(),
		Collection:   db.Collection(),
		Settings:     settings,
		Bindings:     bindingMap,
		Theme:        &th,
		Instrumenter: inst,
		Version:      version,
		SetCode:      setCode,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runImports(repo storage.CardRepository, bulkPath string, setCodes, cardIDs []string) error {
	ctx := context.Background()
	if bulkPath != "" {
		n, err := importBulkFile(ctx, repo, bulkPath)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d printings from %s\n", n, bulkPath)
	}
	if len(setCodes) == 0 && len(cardIDs) == 0 {
		return nil
	}
	client := scryfall.NewClient(scryfall.WithUserAgent("cardvault/" + version))
	if len(setCodes) > 0 {
		n, err := fetchSets(ctx, client, repo, setCodes)
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d printings from %s\n", n, strings.Join(setCodes, ", "))
	}
	if len(cardIDs) > 0 {
		n, err := fetchCards(ctx, client, repo, cardIDs)
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d printings\n", n)
	}
	return nil
}

// redirectLog sends log output to path while the alt screen owns the terminal.
func redirectLog(path string) func() {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("log dir: %v", err)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("log file: %v", err)
		return func() {}
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}
