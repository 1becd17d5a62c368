// Command chtl is the compiler's CLI entry point: it assembles a
// chtlconfig.Config from flags, environment variables, and an optional
// chtl.toml, arms the watchdog, compiles every input file, and writes
// the HTML/CSS/JS outputs atomically.
//
// Flag parsing is built on github.com/spf13/cobra, load config then set
// up logging then dispatch to a runner.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chtl/internal/chtlconfig"
	"chtl/internal/clog"
	"chtl/internal/compiler"
	"chtl/internal/compileunit"
	"chtl/internal/diagnostics"
	"chtl/internal/resolver"
	"chtl/internal/watchdog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := chtlconfig.Config{}

	cmd := &cobra.Command{
		Use:           "chtl <input>...",
		Short:         "Compile CHTL sources into HTML, CSS, and JS",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, inputs []string) error {
			cfg.Inputs = inputs
			return compileAll(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.OutDir, "out-dir", "", "directory to write outputs into")
	cmd.Flags().BoolVar(&cfg.EmitHTML, "emit-html", true, "write the .html output")
	cmd.Flags().BoolVar(&cfg.EmitCSS, "emit-css", true, "write the .css output")
	cmd.Flags().BoolVar(&cfg.EmitJS, "emit-js", true, "write the .js output")
	cmd.Flags().StringSliceVar(&cfg.ModulePath, "module-path", nil, "local module search directories")
	cmd.Flags().StringSliceVar(&cfg.OfficialModulePath, "official-module-path", nil, "official module search directories")
	cmd.Flags().IntVar(&cfg.TimeoutMS, "timeout", 0, "watchdog timeout in milliseconds (0 = use default)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCode); ok {
			if exitErr.code != 1 {
				fmt.Fprintln(os.Stderr, exitErr.Error())
			}
			return exitErr.code
		}
		fmt.Fprintln(os.Stderr, "chtl:", err)
		return 2
	}
	return 0
}

// exitCode lets compileAll (and its RunE caller) communicate a specific
// process exit status back through cobra's error-returning convention
// without cobra's own usage-printing getting in the way.
type exitCode struct {
	code int
	err  error
}

func (e exitCode) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func compileAll(cfg chtlconfig.Config) error {
	chtlconfig.LoadDotEnv()

	toml, err := chtlconfig.LoadTOMLDefaults("chtl.toml")
	if err != nil {
		return exitCode{code: 2, err: err}
	}
	cfg.ApplyTOMLDefaults(toml)
	cfg.ApplyEnvDefaults()

	if cfg.Debug {
		clog.Reset(slog.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return exitCode{code: 2, err: err}
	}

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	paths := resolver.ModulePaths{Official: cfg.OfficialModulePath, Local: cfg.ModulePath}

	hadErrors := false
	runErr := watchdog.Run(timeout, func() error {
		for _, input := range cfg.Inputs {
			res := compiler.CompileFile(input, paths)
			logDiagnostics(input, res.Unit, res.Diagnostics)
			if res.HasErrors() {
				hadErrors = true
				continue
			}
			if err := writeOutputs(input, cfg, res); err != nil {
				clog.Error("writing outputs", "file", input, "error", err)
				hadErrors = true
			}
		}
		return nil
	})
	if runErr != nil {
		return exitCode{code: 1, err: runErr}
	}
	if hadErrors {
		return exitCode{code: 1}
	}
	return nil
}

func logDiagnostics(input string, unit compileunit.ID, diags []diagnostics.Diagnostic) {
	for _, d := range diags {
		logger := clog.With("unit", unit.String(), "input", input, "source", d.File, "line", d.Line, "column", d.Column, "kind", string(d.Kind))
		switch d.Severity {
		case diagnostics.Error:
			logger.Error(d.Message)
		case diagnostics.Warning:
			logger.Warn(d.Message)
		default:
			logger.Info(d.Message)
		}
	}
}

// writeOutputs writes the compiled buffers to <stem>.html/.css/.js in
// cfg.OutDir, atomically (temp file + rename), and suppressing any
// empty CSS/JS output.
func writeOutputs(input string, cfg chtlconfig.Config, res compiler.Result) error {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	if cfg.EmitHTML {
		if err := atomicWrite(filepath.Join(outDir, stem+".html"), res.Output.HTML); err != nil {
			return err
		}
	}
	if cfg.EmitCSS && strings.TrimSpace(res.Output.CSS) != "" {
		if err := atomicWrite(filepath.Join(outDir, stem+".css"), res.Output.CSS); err != nil {
			return err
		}
	}
	if cfg.EmitJS && strings.TrimSpace(res.Output.JS) != "" {
		if err := atomicWrite(filepath.Join(outDir, stem+".js"), res.Output.JS); err != nil {
			return err
		}
	}
	return nil
}

func atomicWrite(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".chtl-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
