// Command zetavm runs and calls into zetavm images from the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/smazumder05/zetavm/config"
	"github.com/smazumder05/zetavm/image"
	"github.com/smazumder05/zetavm/obslog"
	"github.com/smazumder05/zetavm/profile"
	"github.com/smazumder05/zetavm/vm"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <run|call> <image> [args...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	configPath := flag.String("config", "zetavm.toml", "project config file")
	verbose := flag.Bool("v", false, "verbose logging")
	strict := flag.Bool("strict", false, "validate the image against the package schema before running")
	profileDB := flag.String("profile", "", "path to a SQLite database to record call/cache counters into")
	cycleLimit := flag.Uint64("cycle-limit", 0, "abort after this many executed instructions (0 = unlimited)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, imgPath, rest := args[0], args[1], args[2:]

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *strict {
		cfg.Loader.Strict = true
	}
	if *cycleLimit != 0 {
		cfg.VM.CycleLimit = *cycleLimit
	}

	obslog.SetVerbose(*verbose || cfg.VM.Verbose)
	log := obslog.Get("zetavm.cmd")

	f, err := os.Open(imgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pkg, err := image.LoadImage(f)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Loader.Strict {
		if err := image.ValidatePackage(pkg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	importer := image.NewFileImporter(cfg.Loader.SearchPath)

	var sink *profile.Store
	dbPath := *profileDB
	if dbPath == "" && cfg.Profile.Enabled {
		dbPath = cfg.Profile.DBPath
	}
	if dbPath != "" {
		sink, err = profile.Open(dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer sink.Close()
	}

	interp := vm.NewInterpreter(importer)
	interp.Log = log
	interp.CycleLimit = cfg.VM.CycleLimit
	if sink != nil {
		interp.Profiler = sink
	}

	switch cmd {
	case "run":
		result, err := interp.CallExportFn(pkg, "main", literalArgs(rest))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(result.Inspect())
	case "call":
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, "call requires a function name")
			os.Exit(2)
		}
		fnName, fnArgs := rest[0], rest[1:]
		result, err := interp.CallExportFn(pkg, fnName, literalArgs(fnArgs))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(result.Inspect())
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// literalArgs converts command-line strings into int64-valued vm.Values
// when they parse as integers, and string values otherwise.
func literalArgs(strs []string) []vm.Value {
	out := make([]vm.Value, len(strs))
	for i, s := range strs {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			out[i] = vm.Int64(n)
			continue
		}
		out[i] = vm.Str(vm.NewString(s))
	}
	return out
}
