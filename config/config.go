// Package config loads session rules from a config file and the environment.
//
// Keys use snake_case (lock_delay, lines_per_level, ...). Durations are
// written as Go duration strings such as "500ms". Every key can be
// overridden from the environment with the BLOCKFALL_ prefix, for example
// BLOCKFALL_LOCK_DELAY=300ms.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirsle/configdir"
	"github.com/mitchellh/mapstructure"
	"github.com/plus3/blockfall/session"
	"github.com/plus3/blockfall/shape"
	"github.com/spf13/viper"
)

const (
	AppName   = "blockfall"
	EnvPrefix = "BLOCKFALL"
)

// File mirrors session.Config in a form that can be written by hand.
type File struct {
	Width              int           `mapstructure:"width"`
	Height             int           `mapstructure:"height"`
	Preview            int           `mapstructure:"preview"`
	BaseFall           time.Duration `mapstructure:"base_fall"`
	SoftDropMultiplier float64       `mapstructure:"soft_drop_multiplier"`
	HardDrop           time.Duration `mapstructure:"hard_drop"`
	LockDelay          time.Duration `mapstructure:"lock_delay"`
	LinesPerLevel      int           `mapstructure:"lines_per_level"`
	Kicks              [][]int       `mapstructure:"kicks"`
	Shapes             []string      `mapstructure:"shapes"`
	SpawnColumn        int           `mapstructure:"spawn_column"`
	SpawnRow           int           `mapstructure:"spawn_row"`
	DeferClear         bool          `mapstructure:"defer_clear"`
	Seed               uint64        `mapstructure:"seed"`
}

// FromSession converts cfg to its file form.
func FromSession(cfg session.Config) File {
	f := File{
		Width:              cfg.Width,
		Height:             cfg.Height,
		Preview:            cfg.Preview,
		BaseFall:           cfg.BaseFall,
		SoftDropMultiplier: cfg.SoftDropMultiplier,
		HardDrop:           cfg.HardDrop,
		LockDelay:          cfg.LockDelay,
		LinesPerLevel:      cfg.LinesPerLevel,
		SpawnColumn:        cfg.SpawnColumn,
		SpawnRow:           cfg.SpawnRow,
		DeferClear:         cfg.DeferClear,
		Seed:               cfg.Seed,
	}
	for _, k := range cfg.Kicks {
		f.Kicks = append(f.Kicks, []int{k.Col, k.Row})
	}
	for _, k := range cfg.Shapes {
		f.Shapes = append(f.Shapes, k.String())
	}
	return f
}

// Session converts f into a validated session.Config.
func (f File) Session() (session.Config, error) {
	cfg := session.Config{
		Width:              f.Width,
		Height:             f.Height,
		Preview:            f.Preview,
		BaseFall:           f.BaseFall,
		SoftDropMultiplier: f.SoftDropMultiplier,
		HardDrop:           f.HardDrop,
		LockDelay:          f.LockDelay,
		LinesPerLevel:      f.LinesPerLevel,
		SpawnColumn:        f.SpawnColumn,
		SpawnRow:           f.SpawnRow,
		DeferClear:         f.DeferClear,
		Seed:               f.Seed,
	}

	var errs []error
	for i, k := range f.Kicks {
		if len(k) != 2 {
			errs = append(errs, fmt.Errorf("%w: kick %d needs two values, got %d", session.ErrInvalidConfig, i, len(k)))
			continue
		}
		cfg.Kicks = append(cfg.Kicks, shape.Cell{Col: k[0], Row: k[1]})
	}
	for _, name := range f.Shapes {
		k, err := shape.ParseKind(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", session.ErrInvalidConfig, err))
			continue
		}
		cfg.Shapes = append(cfg.Shapes, k)
	}
	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Loader reads configuration through a private viper instance.
type Loader struct {
	// Dirs are searched for a file named blockfall.{yaml,json,toml,...}
	// when Load is called without a path.
	Dirs      []string
	EnvPrefix string
}

// DefaultLoader searches the user config directory and the working
// directory.
func DefaultLoader() *Loader {
	return &Loader{
		Dirs:      []string{configdir.LocalConfig(AppName), "."},
		EnvPrefix: EnvPrefix,
	}
}

// Load reads the config with DefaultLoader.
func Load(path string) (session.Config, error) {
	return DefaultLoader().Load(path)
}

// Load reads path, or searches l.Dirs when path is empty, applies
// environment overrides and returns a validated config. A missing file
// in the search dirs means defaults; a missing explicit path is an error.
func (l *Loader) Load(path string) (session.Config, error) {
	v := viper.New()
	setDefaults(v, FromSession(session.DefaultConfig()))

	if l.EnvPrefix != "" {
		v.SetEnvPrefix(l.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return session.Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName(AppName)
		for _, dir := range l.Dirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return session.Config{}, err
			}
		}
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &f,
	})
	if err != nil {
		return session.Config{}, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return session.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return f.Session()
}

// ConfigFile returns the file viper would read for Load(""), or "" if none
// exists.
func (l *Loader) ConfigFile() string {
	v := viper.New()
	v.SetConfigName(AppName)
	for _, dir := range l.Dirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper, f File) {
	v.SetDefault("width", f.Width)
	v.SetDefault("height", f.Height)
	v.SetDefault("preview", f.Preview)
	v.SetDefault("base_fall", f.BaseFall.String())
	v.SetDefault("soft_drop_multiplier", f.SoftDropMultiplier)
	v.SetDefault("hard_drop", f.HardDrop.String())
	v.SetDefault("lock_delay", f.LockDelay.String())
	v.SetDefault("lines_per_level", f.LinesPerLevel)
	v.SetDefault("kicks", f.Kicks)
	v.SetDefault("shapes", f.Shapes)
	v.SetDefault("spawn_column", f.SpawnColumn)
	v.SetDefault("spawn_row", f.SpawnRow)
	v.SetDefault("defer_clear", f.DeferClear)
	v.SetDefault("seed", f.Seed)
}
