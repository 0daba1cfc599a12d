// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/disasm86/internal/config"
	"github.com/retroenv/disasm86/internal/decoder"
	"github.com/retroenv/disasm86/internal/loader"
	"github.com/retroenv/disasm86/internal/options"
	"github.com/retroenv/disasm86/internal/program"
	"github.com/retroenv/disasm86/internal/verification"
	"github.com/retroenv/disasm86/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, decoderOptions options.Decoder) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}

	data, err := loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}

	if !opts.Quiet {
		logger.Info("Processing binary",
			log.String("file", opts.Input),
			log.Int("size", len(data)),
			log.String("table", decoderOptions.Table),
		)
	}

	app, err := Disassemble(logger, opts.Input, data, decoderOptions)
	if err != nil {
		return err
	}

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := out.(io.Closer); ok && out != os.Stdout {
			_ = closer.Close()
		}
	}()

	w := writer.New(app, out, writer.Options{
		Dump:           decoderOptions.Dump,
		HexComments:    decoderOptions.HexComments,
		OffsetComments: decoderOptions.OffsetComments,
	})
	if err := w.Write(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(logger, app, data); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// Disassemble decodes the data into a program. A decoding failure does not
// fail the processing, the program keeps the instructions decoded up to the
// failure offset and the remaining bytes.
func Disassemble(logger *log.Logger, source string, data []byte, decoderOptions options.Decoder) (*program.Program, error) {
	registry, err := config.CreateRegistry(decoderOptions.Table)
	if err != nil {
		return nil, err
	}

	dec := decoder.New(logger, registry)
	app := program.New(source, data)

	instructions, err := dec.Decode(data)
	app.Instructions = instructions
	if err == nil {
		return app, nil
	}

	var noMatch *decoder.NoMatchError
	if !errors.As(err, &noMatch) {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	app.SetFailure(data, noMatch.Offset, err)
	logger.Warn("Decoding stopped",
		log.Hex("offset", noMatch.Offset),
		log.Int("decoded", app.Decoded()),
		log.Int("remaining", len(app.Remaining)),
		log.Err(err))
	return app, nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".lst"
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("disasm86", log.String("version", buildinfo.Version(version, commit, date)))
}
