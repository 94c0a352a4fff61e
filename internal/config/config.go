package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix             = "SYNBAR"
	defaultWallpaperIcon  = "󰸉"
	defaultSetterTimeout  = 5 * time.Second
	defaultChooserTimeout = 5 * time.Second
	defaultPlayerName     = "spotify"
	defaultFetchTimeout   = 2 * time.Second
	defaultColorTimeout   = 3 * time.Second
	defaultDebounce       = 250 * time.Millisecond
	defaultAudioStep      = 5
	defaultAudioTimeout   = 2 * time.Second
)

// AppConfig holds application configuration
type AppConfig struct {
	Wallpaper WallpaperConfig `mapstructure:"wallpaper"`
	Player    PlayerConfig    `mapstructure:"player"`
	Audio     AudioConfig     `mapstructure:"audio"`
}

// WallpaperConfig drives the wallpaper cycler
type WallpaperConfig struct {
	Dir       string `mapstructure:"dir"`
	StateFile string `mapstructure:"state_file"`
	// Command overrides setter detection, %s is replaced with the image path
	Command        string        `mapstructure:"command"`
	Icon           string        `mapstructure:"icon"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ChooserTimeout time.Duration `mapstructure:"chooser_timeout"`
}

// PlayerConfig drives the MPRIS media-player module
type PlayerConfig struct {
	// Name is the MPRIS suffix, e.g. "spotify" for org.mpris.MediaPlayer2.spotify
	Name         string        `mapstructure:"name"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	ColorTimeout time.Duration `mapstructure:"color_timeout"`
	Debounce     time.Duration `mapstructure:"debounce"`
}

// AudioConfig drives the pactl audio module
type AudioConfig struct {
	// Sinks to cycle through on change-sink; empty means every available sink
	Sinks   []string      `mapstructure:"sinks"`
	Step    int           `mapstructure:"step"`
	Timeout time.Duration `mapstructure:"timeout"`
	Notify  bool          `mapstructure:"notify"`
}

// NewAppConfig loads defaults, the optional TOML file and SYNBAR_* overrides
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}

	v := viper.New()

	v.SetDefault("wallpaper.dir", filepath.Join(home, ".config", "wallpaper"))
	v.SetDefault("wallpaper.state_file", filepath.Join(home, ".config", "polybar", ".wallpaper_state"))
	v.SetDefault("wallpaper.command", "")
	v.SetDefault("wallpaper.icon", defaultWallpaperIcon)
	v.SetDefault("wallpaper.timeout", defaultSetterTimeout)
	v.SetDefault("wallpaper.chooser_timeout", defaultChooserTimeout)
	v.SetDefault("player.name", defaultPlayerName)
	v.SetDefault("player.fetch_timeout", defaultFetchTimeout)
	v.SetDefault("player.color_timeout", defaultColorTimeout)
	v.SetDefault("player.debounce", defaultDebounce)
	v.SetDefault("audio.sinks", []string{})
	v.SetDefault("audio.step", defaultAudioStep)
	v.SetDefault("audio.timeout", defaultAudioTimeout)
	v.SetDefault("audio.notify", true)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(expandPath(cfgPath, home))
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "synbar"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Warn("Config file ignored", zap.Error(err))
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	c.Wallpaper.Dir = expandPath(c.Wallpaper.Dir, home)
	c.Wallpaper.StateFile = expandPath(c.Wallpaper.StateFile, home)

	if c.Audio.Step <= 0 {
		c.Audio.Step = defaultAudioStep
	}

	logger.Debug("Configuration loaded",
		zap.String("wallpaperDir", c.Wallpaper.Dir),
		zap.String("stateFile", c.Wallpaper.StateFile),
		zap.String("player", c.Player.Name),
		zap.Strings("sinks", c.Audio.Sinks))

	return &c, nil
}

// expandPath expands environment variables and a leading ~
func expandPath(path, home string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[1:])
	}
	return path
}

// WallpaperSection exposes the wallpaper settings to the dependency graph
func WallpaperSection(c *AppConfig) WallpaperConfig { return c.Wallpaper }

// PlayerSection exposes the player settings to the dependency graph
func PlayerSection(c *AppConfig) PlayerConfig { return c.Player }

// AudioSection exposes the audio settings to the dependency graph
func AudioSection(c *AppConfig) AudioConfig { return c.Audio }
