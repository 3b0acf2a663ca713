package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/tmips/tmipsasm/internal/assembler"
	"github.com/tmips/tmipsasm/internal/dataseg"
	"github.com/tmips/tmipsasm/internal/diag"
	"github.com/tmips/tmipsasm/internal/isa"
	"github.com/tmips/tmipsasm/internal/listing"
	"github.com/tmips/tmipsasm/internal/logging"
	"github.com/tmips/tmipsasm/internal/source"
	"github.com/tmips/tmipsasm/internal/symtab"
	"github.com/tmips/tmipsasm/internal/version"
	"golang.org/x/term"
)

const (
	objectExt = ".obj"
	errorExt  = ".err"
)

func main() {
	doMain(os.Args[1:], os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(args []string, stdOut, stdErr io.Writer, exit func(code int)) {
	cmd := newRootCommand(stdOut, stdErr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(stdErr, err)
		exit(1)
		return
	}
	exit(0)
}

type options struct {
	output          string
	stdout          bool
	strictRegisters bool
	maxLineLength   int
	trace           logScopesFlag
	dump            bool
}

func newRootCommand(stdOut, stdErr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "tmipsasm [flags] sourceFile",
		Short: "Two-pass assembler for TMIPS",
		Long: `tmipsasm assembles a TMIPS source file into an object listing of hex words.

The object listing is written to the source path with its extension replaced by
.obj. If the source has illegal opcodes, or undefined or multiply defined
symbols, an error report is written to .err instead.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(*cobra.Command, []string) {
			// glog only logs after its flags are parsed. Its flags were already parsed by cobra.
			_ = flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(args[0], opts, stdOut, stdErr)
		},
		SilenceErrors: true,
	}
	cmd.SetOut(stdOut)
	cmd.SetErr(stdErr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "",
		"Path of the output file without its extension. Defaults to the source path up to the first '.' of its name.")
	flags.BoolVar(&opts.stdout, "stdout", false, "Write the listing or error report to stdout instead of a file.")
	flags.BoolVar(&opts.strictRegisters, "strict-registers", false,
		"Fail on register operands other than $0, $tN and $sN, instead of assembling them as $0.")
	flags.IntVar(&opts.maxLineLength, "max-line-length", source.DefaultMaxLineLength,
		"Maximum length of a source line in bytes.")
	flags.Var(&opts.trace, "trace",
		"A comma-separated list of scopes to trace with glog. Requires -v=1 or -v=2 for per word traces. "+
			"Supported values: source,symbols,encode,data,all")
	flags.BoolVar(&opts.dump, "dump", false, "Pretty-print the assembled program to stderr.")

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	useStderr()

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the tmipsasm version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(stdOut, version.GetVersion())
		},
	})
	return cmd
}

// useStderr makes glog default to stderr instead of files in the temp directory.
func useStderr() {
	if f := flag.Lookup("logtostderr"); f != nil && f.Value.String() == f.DefValue {
		f.DefValue = "true"
		_ = f.Value.Set("true")
	}
}

func run(path string, opts *options, stdOut, stdErr io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening asm file: %w", err)
	}
	defer f.Close()

	cfg := assembler.NewConfig().
		WithStrictRegisters(opts.strictRegisters).
		WithMaxLineLength(opts.maxLineLength).
		WithTrace(logging.LogScopes(opts.trace))
	prog, err := assembler.Assemble(f, cfg)
	if err != nil {
		return fmt.Errorf("error assembling %s: %w", path, err)
	}

	if opts.dump {
		dump(stdErr, prog)
	}

	if opts.stdout {
		return listing.Write(stdOut, prog)
	}

	base := opts.output
	if base == "" {
		base = outputBase(path)
	}
	ext := objectExt
	if prog.HasErrors() {
		ext = errorExt
	}
	out := base + ext
	if err = writeFile(out, prog); err != nil {
		return err
	}
	fmt.Fprintf(stdOut, "Check %s for output\n", out)
	return nil
}

func writeFile(path string, prog *assembler.Program) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("error writing output file: %w", closeErr)
		}
	}()
	if err = listing.Write(f, prog); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

// outputBase returns path up to the first '.' of its file name. Ex. "dir/prog.v1.asm" is "dir/prog".
func outputBase(path string) string {
	dir, name := filepath.Split(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return dir + name
}

// dump pretty-prints prog, with colors only when w is a terminal.
func dump(w io.Writer, prog *assembler.Program) {
	printer := pp.New()
	printer.SetColoringEnabled(isTerminal(w))
	_, _ = printer.Fprintln(w, struct {
		Instructions []*isa.Instruction
		Data         []dataseg.Word
		Symbols      []symtab.Symbol
		Diagnostics  []diag.Diagnostic
	}{
		Instructions: prog.Instructions,
		Data:         prog.Data,
		Symbols:      prog.Symbols.Symbols(),
		Diagnostics:  prog.Diagnostics.Entries(),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type logScopesFlag logging.LogScopes

func (f *logScopesFlag) String() string {
	return logging.LogScopes(*f).String()
}

func (f *logScopesFlag) Set(input string) error {
	scopes, err := logging.ParseScopes(input)
	if err != nil {
		return err
	}
	*f |= logScopesFlag(scopes)
	return nil
}

// Type implements pflag.Value.
func (f *logScopesFlag) Type() string {
	return "scopes"
}
