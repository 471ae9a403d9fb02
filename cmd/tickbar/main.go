package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/okane-data/tickbar/internal/aggregate"
	"github.com/okane-data/tickbar/internal/clean"
	"github.com/okane-data/tickbar/internal/export"
	"github.com/okane-data/tickbar/internal/service"
	"github.com/okane-data/tickbar/internal/source"
	"github.com/spf13/afero"
)

type config struct {
	DataDir         string     `env:"DATA_DIR" envDefault:"./data"`
	OutDir          string     `env:"OUT_DIR" envDefault:"."`
	SaveFormat      string     `env:"SAVE_FORMAT" envDefault:"csv"`
	SigmaMultiplier float64    `env:"CLEAN_SIGMA_MULTIPLIER" envDefault:"3"`
	LogLevel        slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	startFlag := flag.String("start", "", "bar range start (YYYY-MM-DD HH:MM:SS)")
	endFlag := flag.String("end", "", "bar range end, exclusive (YYYY-MM-DD HH:MM:SS)")
	intervalFlag := flag.String("interval", "", "bar width, e.g. 4s, 15m, 2h, 1d, 1h30m")
	flag.Parse()

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.DateTime,
		}),
	))

	cfg := config{}
	if err := loadConfig(&cfg); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.DateTime,
		}),
	))

	fs := afero.NewOsFs()
	loader := source.NewLoader(fs)
	runReport := service.NewRunReport(cfg.DataDir)

	rows, stats, err := loader.Load(cfg.DataDir)
	if err != nil {
		slog.Error("failed to load tick data", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	if err := loader.WriteCombined(filepath.Join(cfg.OutDir, "combined_data.csv"), rows); err != nil {
		slog.Error("failed to write combined data", "error", err)
		os.Exit(1)
	}

	series, cleanReport := clean.New(stats, cfg.SigmaMultiplier).Clean(rows)
	slog.Info("cleaned tick data",
		"ticks", len(series), "rejected", cleanReport.Rejected(), "sigma_multiplier", cfg.SigmaMultiplier)

	if err := export.WriteTicks(fs, series, filepath.Join(cfg.OutDir, "cleaned_data.csv")); err != nil {
		slog.Error("failed to write cleaned data", "error", err)
		os.Exit(1)
	}

	runReport.RowsLoaded = len(rows)
	runReport.TicksKept = len(series)
	runReport.Rejections = cleanReport

	if *startFlag != "" || *endFlag != "" || *intervalFlag != "" {
		req := aggregate.Request{Start: *startFlag, End: *endFlag, Interval: *intervalFlag}
		start, end, iv, err := aggregate.ParseRequest(req)
		if err != nil {
			slog.Error("invalid aggregation request", "error", err)
			os.Exit(1)
		}

		bars, err := aggregate.Aggregate(series, start, end, iv)
		if err != nil {
			slog.Error("aggregation failed", "error", err)
			os.Exit(1)
		}

		saver := export.NewBarSaver(cfg.SaveFormat)
		if saver == nil {
			slog.Error("unsupported save format", "format", cfg.SaveFormat, "allowed", "csv, json, parquet")
			os.Exit(1)
		}
		outPath := filepath.Join(cfg.OutDir, "ohlcv_data."+saver.Extension())
		if err := saver.Save(fs, bars, outPath); err != nil {
			slog.Error("failed to write bars", "path", outPath, "error", err)
			os.Exit(1)
		}
		slog.Info("bars written", "path", outPath, "bars", len(bars), "interval", iv.String())
		runReport.BarsWritten = len(bars)
	}

	runReport.FinishedAt = time.Now().UTC()
	reportPath := filepath.Join(cfg.OutDir, ".lastrun.json")
	if err := service.WriteRunReport(fs, reportPath, runReport); err != nil {
		slog.Warn("could not write run report", "path", reportPath, "error", err)
	}
}

func loadConfig(config any) error {
	// Ignore error if .env is missing
	err := godotenv.Load()

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// Parse for built-in types
	if err := env.Parse(config); err != nil {
		return err
	}

	return nil
}
