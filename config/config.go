package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/revelaction/relfeat/feature"
	"github.com/revelaction/relfeat/file"
)

const (
	EnvPrefix = "RELFEAT"
	FileName  = "relfeat.yaml"
)

type SideFiles struct {
	Dir     string
	Layout  file.Layout
	LoadRaw bool
}

type Classifier struct {
	Mallet  string
	Trainer string
	WorkDir string
}

type Log struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
}

// Config is the resolved configuration of a run.
type Config struct {
	// File is the config file in use, empty if none was found.
	File string

	SideFiles    SideFiles
	PosSeparator string
	Features     feature.Set
	Classifier   Classifier
	Negative     string
	Log          Log
}

func setDefaults(v *viper.Viper) {
	def := file.DefaultLayout("")

	v.SetDefault("sidefiles.dir", ".")
	for _, k := range file.Kinds() {
		v.SetDefault("sidefiles."+string(k)+".dir", "")
		v.SetDefault("sidefiles."+string(k)+".suffix", def[k].Suffix)
	}
	v.SetDefault("sidefiles.raw.load", false)

	v.SetDefault("pos.separator", "_")
	v.SetDefault("features", feature.DefaultSet().Names())

	v.SetDefault("classifier.mallet", "Mallet/bin/mallet")
	v.SetDefault("classifier.trainer", "MaxEnt")
	v.SetDefault("classifier.workdir", ".")

	v.SetDefault("score.negative", "no_rel")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max-size", 10)
	v.SetDefault("log.max-backups", 3)
}

// searchFile returns the first relfeat.yaml found in the working directory
// or the user config directory.
func searchFile() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "relfeat", FileName))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// New returns a viper instance with defaults and environment binding. The
// config file is path if given, otherwise the first one found.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = searchFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return v, nil
}

// Load reads the configuration. An empty path searches for relfeat.yaml.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// FromViper converts the viper settings into a Config.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		File:         v.ConfigFileUsed(),
		PosSeparator: v.GetString("pos.separator"),
		Classifier: Classifier{
			Mallet:  v.GetString("classifier.mallet"),
			Trainer: v.GetString("classifier.trainer"),
			WorkDir: v.GetString("classifier.workdir"),
		},
		Negative: v.GetString("score.negative"),
		Log: Log{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSize:    v.GetInt("log.max-size"),
			MaxBackups: v.GetInt("log.max-backups"),
		},
	}

	if cfg.PosSeparator == "" {
		return Config{}, errors.New("pos.separator must not be empty")
	}

	dir := v.GetString("sidefiles.dir")
	layout := file.Layout{}
	for _, k := range file.Kinds() {
		loc := file.Location{
			Dir:    v.GetString("sidefiles." + string(k) + ".dir"),
			Suffix: v.GetString("sidefiles." + string(k) + ".suffix"),
		}
		if loc.Dir == "" {
			loc.Dir = dir
		}
		layout[k] = loc
	}
	cfg.SideFiles = SideFiles{Dir: dir, Layout: layout, LoadRaw: v.GetBool("sidefiles.raw.load")}

	set, err := feature.NewSet(v.GetStringSlice("features"))
	if err != nil {
		return Config{}, fmt.Errorf("features: %w", err)
	}
	cfg.Features = set

	return cfg, nil
}
