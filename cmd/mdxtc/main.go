// Command mdxtc dumps, iterates, and selects atoms from GROMACS XTC
// trajectories and GRO structure files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halvard-md/mdxtc/gro"
	"github.com/halvard-md/mdxtc/topology"
	"github.com/halvard-md/mdxtc/xtc"
)

func main() {
	if len(os.Args) < 2 {
		fatalf("usage: mdxtc <dump|iterate|select> [args]")
	}

	mode := os.Args[1]
	args := os.Args[2:]

	var err error
	switch mode {
	case "dump":
		err = runDump(args)
	case "iterate":
		err = runIterate(args)
	case "select":
		err = runSelect(args)
	default:
		fatalf("unknown subcommand %q (supported: dump, iterate, select)", mode)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func initLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("app", "mdxtc").Logger()
	if lvl, parseErr := zerolog.ParseLevel(level); parseErr == nil && level != "" {
		logger = logger.Level(lvl)
	}
	xtc.SetLogger(logger)
	return logger
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional TOML config file")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: mdxtc dump <file.xtc>")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg.LogLevel)

	path := fs.Arg(0)
	it, err := xtc.Frames(path)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		f := it.Frame()
		fmt.Printf("step=%d time=%.4f natoms=%d box=[%.3f %.3f %.3f]\n",
			f.Step, f.Time, f.NAtoms, f.Box[0][0], f.Box[1][1], f.Box[2][2])
	}
	if err := it.Err(); err != nil {
		logger.Error().Err(err).Str("file", path).Msg("dump stopped early")
		return err
	}
	return nil
}

func runIterate(args []string) error {
	fs := flag.NewFlagSet("iterate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional TOML config file")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: mdxtc iterate <file.xtc>")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg.LogLevel)

	path := fs.Arg(0)
	start := time.Now()
	it, err := xtc.Frames(path)
	if err != nil {
		return err
	}
	defer it.Close()

	count := 0
	for it.Next() {
		count++
	}
	if err := it.Err(); err != nil {
		logger.Error().Err(err).Str("file", path).Msg("iterate stopped early")
		return err
	}
	elapsed := time.Since(start)
	fmt.Printf("frames=%d elapsed=%s\n", count, elapsed.Round(time.Millisecond))
	return nil
}

func runSelect(args []string) error {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	cfgPath := fs.String("config", "", "optional TOML config file")
	names := fs.String("name", "", "comma-separated list of atom names to select")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: mdxtc select <file.gro> --name OW,HW1")
	}
	path := fs.Arg(0)
	// Flags may also follow the file argument, as in the usage line.
	fs.Parse(fs.Args()[1:])
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	initLogger(cfg.LogLevel)

	structure, err := gro.ParseStructureFile(path)
	if err != nil {
		return err
	}
	top := topology.New(structure.Atoms)

	var sel topology.Selection
	for _, name := range strings.Split(*names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		sel = sel.Union(top.ByName(name))
	}
	for _, idx := range sel {
		fmt.Println(idx)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "mdxtc: "+format+"\n", args...)
	os.Exit(1)
}
