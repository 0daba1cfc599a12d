// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/disasm86/internal/isa"
	"github.com/retroenv/disasm86/internal/options"
	"golang.org/x/exp/slices"
)

// ParseFlags parses command line flags and returns program and decoder options
func ParseFlags() (options.Program, options.Decoder, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Decoder{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Decoder{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Decoder{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, createDecoderOptions(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: disasm86 [options] <file to disassemble>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Table = strings.ToLower(opts.Table)

	validTables := isa.TableNames()
	if slices.Contains(validTables, opts.Table) {
		return nil
	}

	return fmt.Errorf("unsupported template table: %s. Valid options: %s",
		opts.Table, strings.Join(validTables, ", "))
}

// createDecoderOptions creates decoder options based on program options
func createDecoderOptions(opts options.Program) options.Decoder {
	decoderOptions := options.NewDecoder(opts.Table)
	decoderOptions.Dump = opts.Dump
	decoderOptions.HexComments = !opts.NoHexComments
	decoderOptions.OffsetComments = !opts.NoOffsets
	return decoderOptions
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input binary file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .lst file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .lst file naming, for example *.bin")
	flags.StringVar(&opts.Table, "t", isa.DefaultTable, "template table to decode with (8086/original)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated output by re-encoding all instructions and check if it matches the input")
	flags.BoolVar(&opts.Dump, "dump", false, "dump the decoded data structures instead of writing a listing")
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output instruction bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
}
