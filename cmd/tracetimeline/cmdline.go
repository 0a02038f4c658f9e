package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"wasi.team/timeline/config"
)

type Args struct {
	Filename string
	Verbose  string
	Output   string
	Style    string
	Open     bool
	Version  bool
}

// errUsage marks commandline errors that have already been reported.
var errUsage = errors.New("usage error")

func cmdline(args []string, conf config.Configuration, stderr io.Writer) (Args, error) {

	fs := flag.NewFlagSet("tracetimeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: tracetimeline [flags] filename")
		fmt.Fprintln(stderr, "\nRender a timeline of an I/O trace with columns start, end, io_type and latency.")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		config.PrintUsage(stderr)
	}

	verbose := &optionalString{value: "s"}
	fs.Var(verbose, "v", "verbosity, with or without a value (currently unused)")
	fs.Var(verbose, "verbose", "same as -v")

	output := fs.String("o", "",
		"write the chart to this file (.html, .svg or .png) instead of a temporary page")

	style := fs.String("style", "",
		"YAML file with chart style overrides")

	noOpen := fs.Bool("no-open", !conf.Open,
		"do not open the rendered chart in a browser")

	version := fs.Bool("version", false,
		"print version information and exit")

	// flags and the filename may be given in any order
	positional := []string{}
	rest := verboseValues(fs, args)
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return Args{}, err
			}
			return Args{}, errUsage
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	a := Args{
		Verbose: verbose.value,
		Output:  *output,
		Style:   *style,
		Open:    !*noOpen,
		Version: *version,
	}
	if a.Version {
		return a, nil
	}

	switch len(positional) {
	case 1:
		a.Filename = positional[0]
		return a, nil
	case 0:
		return a, usage(fs, stderr, "the following arguments are required: filename")
	default:
		return a, usage(fs, stderr, "unrecognized arguments: %v", positional[1:])
	}

}

func usage(fs *flag.FlagSet, stderr io.Writer, format string, a ...any) error {
	fmt.Fprintf(stderr, "ERR: "+format+"\n", a...)
	fs.Usage()
	return errUsage
}

// optionalString is a flag that takes zero or one value. Without a value it
// is set to the empty string.
type optionalString struct {
	value string
}

func (o *optionalString) String() string {
	if o == nil {
		return ""
	}
	return o.value
}

func (o *optionalString) Set(s string) error {
	o.value = s
	return nil
}

func (o *optionalString) IsBoolFlag() bool { return true }

// verboseValues rewrites "-v" and "--verbose" into the "-v=value" form. The
// next argument is taken as the value when it is not a flag and a filename
// still follows it; otherwise the value is empty.
func verboseValues(fs *flag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		switch arg {
		case "-v", "--v", "-verbose", "--verbose":
		default:
			out = append(out, arg)
			continue
		}
		if i+1 < len(args) && !isFlag(args[i+1]) && hasPositional(fs, args[i+2:]) {
			out = append(out, arg+"="+args[i+1])
			i++
		} else {
			out = append(out, arg+"=")
		}
	}
	return out
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// hasPositional reports whether args hold anything besides flags and their values.
func hasPositional(fs *flag.FlagSet, args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return i+1 < len(args)
		}
		if !isFlag(arg) {
			return true
		}
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); !ok || !b.IsBoolFlag() {
				i++ // skip the flag's value
			}
		}
	}
	return false
}
