// Package generation runs the external engine scripts behind the text, image and voice capabilities.
package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/genstudio/genstudio/internal/metrics"
	"github.com/genstudio/genstudio/internal/model"
)

// defaultInterpreter is used on every OS without an entry in interpreterByOS.
const defaultInterpreter = "python3"

// interpreterByOS maps runtime.GOOS to the interpreter binary.
var interpreterByOS = map[string]string{
	"windows": `C:\Python312\python.exe`,
}

// scriptNames maps each capability to its engine script.
var scriptNames = map[model.Capability]string{
	model.CapabilityText:  "text.py",
	model.CapabilityImage: "image.py",
	model.CapabilityVoice: "voice.py",
}

// resultFields names the stdout JSON field holding each capability's result.
var resultFields = map[model.Capability]string{
	model.CapabilityText:  "content",
	model.CapabilityImage: "image_data",
	model.CapabilityVoice: "audio_data",
}

// optionEnvPrefix prefixes option names forwarded to the process environment.
const optionEnvPrefix = "GENERATION_OPT_"

// Status labels recorded for each invocation.
const (
	statusSuccess          = "success"
	statusGenerationFailed = "generation_failed"
	statusProcessFailed    = "process_failed"
	statusLaunchFailed     = "launch_failed"
)

// DefaultInterpreter returns the interpreter for the given GOOS.
func DefaultInterpreter(goos string) string {
	if path, ok := interpreterByOS[goos]; ok {
		return path
	}
	return defaultInterpreter
}

// InvokerConfig configures an Invoker.
type InvokerConfig struct {
	// EngineDir is the directory containing text.py, image.py and voice.py.
	EngineDir string
	// Interpreter overrides the OS lookup table when set.
	Interpreter string
	Logger      *slog.Logger
	Metrics     metrics.Recorder
}

// Invoker launches one external process per generation call.
type Invoker struct {
	interpreter string
	engineDir   string
	logger      *slog.Logger
	metrics     metrics.Recorder
}

// NewInvoker creates an Invoker.
func NewInvoker(cfg InvokerConfig) *Invoker {
	interpreter := cfg.Interpreter
	if interpreter == "" {
		interpreter = DefaultInterpreter(runtime.GOOS)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Invoker{
		interpreter: interpreter,
		engineDir:   cfg.EngineDir,
		logger:      logger.With("component", "generation.invoker"),
		metrics:     recorder,
	}
}

// Interpreter returns the interpreter binary in use.
func (inv *Invoker) Interpreter() string {
	return inv.interpreter
}

// ScriptPath returns the engine script for a capability.
func (inv *Invoker) ScriptPath(capability model.Capability) string {
	return filepath.Join(inv.engineDir, scriptNames[capability])
}

// Ping reports whether the interpreter and every engine script can be found.
// It does not run anything.
func (inv *Invoker) Ping(_ context.Context) error {
	if _, err := exec.LookPath(inv.interpreter); err != nil {
		return fmt.Errorf("interpreter %s: %w", inv.interpreter, err)
	}
	var errs []error
	for _, capability := range model.Capabilities {
		if _, err := os.Stat(inv.ScriptPath(capability)); err != nil {
			errs = append(errs, fmt.Errorf("%s script: %w", capability, err))
		}
	}
	return errors.Join(errs...)
}

// Invoke runs the capability's script with input as its sole positional argument
// and returns the result parsed from its standard output.
//
// The process is not bound to ctx: it runs to completion even if the caller goes away.
// There is no timeout and no limit on concurrently running processes.
func (inv *Invoker) Invoke(ctx context.Context, capability model.Capability, input string, options map[string]string) (string, error) {
	if !capability.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, capability)
	}

	script := inv.ScriptPath(capability)
	cmd := exec.Command(inv.interpreter, script, input)
	cmd.Env = append(os.Environ(), optionEnv(options)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	inv.metrics.ObserveGenerationDuration(string(capability), elapsed)

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			err := &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   truncate(strings.TrimSpace(stderr.String()), maxStderrDetail),
			}
			inv.finish(ctx, capability, statusProcessFailed, elapsed, err)
			return "", err
		}

		err := &LaunchError{Path: inv.interpreter, Err: runErr}
		inv.finish(ctx, capability, statusLaunchFailed, elapsed, err)
		return "", err
	}

	result, err := parseOutput(capability, stdout.Bytes())
	if err != nil {
		inv.finish(ctx, capability, statusGenerationFailed, elapsed, err)
		return "", err
	}

	inv.finish(ctx, capability, statusSuccess, elapsed, nil)
	return result, nil
}

func (inv *Invoker) finish(ctx context.Context, capability model.Capability, status string, elapsed time.Duration, err error) {
	inv.metrics.IncGeneration(string(capability), status)

	attrs := []slog.Attr{
		slog.String("capability", string(capability)),
		slog.String("status", status),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		inv.logger.LogAttrs(ctx, slog.LevelWarn, "generation process failed", attrs...)
		return
	}
	inv.logger.LogAttrs(ctx, slog.LevelInfo, "generation process completed", attrs...)
}

// parseOutput extracts the capability result from the process's standard output.
func parseOutput(capability model.Capability, raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", &FailedError{Detail: "process produced no output"}
	}

	if !gjson.ValidBytes(trimmed) || !gjson.ParseBytes(trimmed).IsObject() {
		// Text degrades to the raw output; binary capabilities cannot.
		if capability == model.CapabilityText {
			return string(trimmed), nil
		}
		return "", &FailedError{Detail: "could not parse process output"}
	}

	obj := gjson.ParseBytes(trimmed)

	success := obj.Get("success")
	if !success.IsBool() {
		return "", &FailedError{Detail: "process output missing success flag"}
	}
	if !success.Bool() {
		detail := obj.Get("error").String()
		if detail == "" {
			detail = "unknown error"
		}
		return "", &FailedError{Detail: detail}
	}

	field := resultFields[capability]
	value := obj.Get(field)
	if !value.Exists() {
		return "", &FailedError{Detail: fmt.Sprintf("process output missing %q", field)}
	}

	return value.String(), nil
}

// optionEnv renders options as GENERATION_OPT_<KEY>=<value> pairs in a stable order.
func optionEnv(options map[string]string) []string {
	if len(options) == 0 {
		return nil
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, optionEnvPrefix+strings.ToUpper(k)+"="+options[k])
	}
	return env
}
