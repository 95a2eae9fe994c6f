package smt

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config describes how the external solver process is spawned and how long it may run
type Config struct {
	SolverPath    string        // Executable of the SMT solver (looked up in PATH when not absolute)
	SolverArgs    []string      // Arguments that put the solver into interactive SMT-LIB mode
	TimeLimitPath string        // Optional time-limiting wrapper (e.g. "timelimit"); empty disables the wrapper
	TimeBudget    time.Duration // Time the solver is given to answer
	Grace         time.Duration // Extra time granted before the process is killed
}

func DefaultConfig() Config {
	return Config{
		SolverPath: "z3",
		SolverArgs: []string{"-smt2", "-in"},
		TimeBudget: 5 * time.Second,
		Grace:      time.Second,
	}
}

// LoadConfig reads a json config file. Keys absent from the file keep the values of DefaultConfig
func LoadConfig(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}

	return DecodeConfig(inputJson)
}

// DecodeConfig accepts durations either as strings ("1m30s") or as bare numbers of seconds
func DecodeConfig(raw map[string]any) (Config, error) {
	config := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToTimeDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		ZeroFields: true, // Replace the default solver arguments instead of merging into them
		Result:     &config,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if config.SolverPath == "" {
		return Config{}, fmt.Errorf("invalid config: solver path must not be empty")
	} else if config.TimeBudget <= 0 {
		return Config{}, fmt.Errorf("invalid config: time budget must be positive: %v", config.TimeBudget)
	} else if config.Grace < 0 {
		return Config{}, fmt.Errorf("invalid config: grace must not be negative: %v", config.Grace)
	}
	return config, nil
}

func secondsToTimeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		value := reflect.ValueOf(data)
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(value.Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(value.Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(value.Float() * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}
