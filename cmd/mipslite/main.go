// Command mipslite loads a memory image and runs it on either the
// functional reference core or the five-stage pipeline, writing a final
// report to the given output file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alele/mipslite/config"
	"github.com/alele/mipslite/emu"
	"github.com/alele/mipslite/loader"
	"github.com/alele/mipslite/report"
	"github.com/alele/mipslite/timing/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mipslite <memory_image> <output_file> <debug_level> <mode>",
		Short: "Cycle-accurate simulator for the MIPS-lite load/store ISA",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], args[2], args[3])
		},
		SilenceUsage: true,
	}
	return cmd
}

func run(imagePath, outputPath, debugArg, modeArg string) error {
	debugLevel, err := config.ParseDebugLevel(debugArg)
	if err != nil {
		return err
	}
	mode, err := config.ParseMode(modeArg)
	if err != nil {
		return err
	}

	logger := newLogger(debugLevel)

	imageFile, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening memory image: %w", err)
	}
	defer imageFile.Close()

	image, err := loader.Load(imageFile)
	if err != nil {
		return fmt.Errorf("loading memory image: %w", err)
	}
	logger.Info("loaded memory image", "path", imagePath, "bytes", len(image))

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	switch mode {
	case config.ModeFunc:
		return runFunctional(image, outFile, logger)
	case config.ModeNoFwd:
		return runPipelined(image, outFile, logger, pipeline.NoForwarding)
	case config.ModeFwd:
		return runPipelined(image, outFile, logger, pipeline.Forwarding)
	default:
		return fmt.Errorf("unhandled mode %q", mode)
	}
}

func runFunctional(image []byte, out *os.File, logger *slog.Logger) error {
	mem := emu.NewMemory()
	if err := mem.LoadImage(image); err != nil {
		return fmt.Errorf("installing image: %w", err)
	}

	e := emu.NewEmulator(emu.WithMemory(mem))
	logger.Debug("starting functional run")
	if err := e.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("halted", "pc", e.RegFile().PC, "instructions", e.Observation().Total)

	return report.Write(out, e.RegFile(), e.Memory(), e.Observation(), nil)
}

func runPipelined(image []byte, out *os.File, logger *slog.Logger, mode pipeline.Mode) error {
	mem := emu.NewMemory()
	if err := mem.LoadImage(image); err != nil {
		return fmt.Errorf("installing image: %w", err)
	}

	regFile := emu.NewRegFile()
	p := pipeline.NewPipeline(regFile, mode, pipeline.WithPipelineMemory(mem))
	logger.Debug("starting pipelined run", "mode", mode)
	if err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	stats := p.Stats()
	logger.Info("halted", "pc", p.RegFile().PC, "cycles", stats.Cycles, "stalls", stats.Stalls)

	timing := &report.Timing{Cycles: stats.Cycles, Stalls: stats.Stalls}
	return report.Write(out, p.RegFile(), p.Memory(), p.Observation(), timing)
}

func newLogger(level config.DebugLevel) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case config.Release:
		slogLevel = slog.LevelError
	case config.Debug:
		slogLevel = slog.LevelDebug
	case config.Info:
		slogLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler)
}
