package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "todo"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultDriver         = "sqlite3"
	DefaultPageSize       = 10
)

// Duration reads "5s", "2m" or a bare number of seconds from TOML and env.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.SetValue(string(text))
}

// SetValue lets cleanenv decode the same formats as the config file.
func (d *Duration) SetValue(raw string) error {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	if s == "" {
		return errors.New("empty duration")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be like 5s, 1m or a number of seconds: %w", err)
	}
	*d = Duration(v)
	return nil
}

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Edit       string `toml:"edit"`
	Category   string `toml:"category"`
	Reminder   string `toml:"reminder"`
	Complete   string `toml:"complete"`
	Delete     string `toml:"delete"`
	Filter     string `toml:"filter"`
	SwitchView string `toml:"switch_view"`
	Command    string `toml:"command"`
	Detail     string `toml:"detail"`
	Help       string `toml:"help"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Top        string `toml:"top"`
	Bottom     string `toml:"bottom"`
	PageUp     string `toml:"page_up"`
	PageDown   string `toml:"page_down"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
}

type Config struct {
	DBPath               string   `toml:"db_path" env:"TODO_DB_PATH"`
	DBDriver             string   `toml:"db_driver" env:"TODO_DB_DRIVER"`
	PollInterval         Duration `toml:"poll_interval" env:"TODO_POLL_INTERVAL"`
	RefreshInterval      Duration `toml:"refresh_interval" env:"TODO_REFRESH_INTERVAL"`
	DesktopNotifications bool     `toml:"desktop_notifications" env:"TODO_DESKTOP_NOTIFICATIONS"`
	NotifyCommand        string   `toml:"notify_command" env:"TODO_NOTIFY_COMMAND"`
	NotifyTitle          string   `toml:"notify_title" env:"TODO_NOTIFY_TITLE"`
	NotifyTimeout        Duration `toml:"notify_timeout" env:"TODO_NOTIFY_TIMEOUT"`
	LogLevel             string   `toml:"log_level" env:"TODO_LOG_LEVEL"`
	PageSize             int      `toml:"page_size"`
	Keys                 Keymap   `toml:"keys"`
}

// ResolveConfigPath returns the user config file location, falling back to
// the working directory when no config dir is known.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// DefaultDBPath is ~/.local/share/todo/todo.db, or todo.db in the working
// directory when there is no home.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName, DefaultDBName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDBName
	}
	return filepath.Join(home, ".local", "share", AppName, DefaultDBName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist, then applies TODO_* environment overrides.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: read env: %w", err)
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("config: db_driver must be sqlite3 or sqlite, got %q", c.DBDriver)
	}
	return nil
}

func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = def.DBPath
	}
	c.DBPath = expandHome(c.DBPath)
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = def.DBDriver
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = def.RefreshInterval
	}
	if strings.TrimSpace(c.NotifyTitle) == "" {
		c.NotifyTitle = def.NotifyTitle
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = def.NotifyTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	c.Keys = def.Keys.Merge(c.Keys)
}

// Merge returns k with every empty binding taken from def.
func (def Keymap) Merge(k Keymap) Keymap {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&k.Quit, def.Quit)
	fill(&k.Add, def.Add)
	fill(&k.Edit, def.Edit)
	fill(&k.Category, def.Category)
	fill(&k.Reminder, def.Reminder)
	fill(&k.Complete, def.Complete)
	fill(&k.Delete, def.Delete)
	fill(&k.Filter, def.Filter)
	fill(&k.SwitchView, def.SwitchView)
	fill(&k.Command, def.Command)
	fill(&k.Detail, def.Detail)
	fill(&k.Help, def.Help)
	fill(&k.Up, def.Up)
	fill(&k.Down, def.Down)
	fill(&k.Top, def.Top)
	fill(&k.Bottom, def.Bottom)
	fill(&k.PageUp, def.PageUp)
	fill(&k.PageDown, def.PageDown)
	fill(&k.Confirm, def.Confirm)
	fill(&k.Cancel, def.Cancel)
	return k
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DBPath:               DefaultDBPath(),
		DBDriver:             DefaultDriver,
		PollInterval:         Duration(5 * time.Second),
		RefreshInterval:      Duration(5 * time.Second),
		DesktopNotifications: true,
		NotifyTitle:          "TODO",
		NotifyTimeout:        Duration(10 * time.Second),
		LogLevel:             "info",
		PageSize:             DefaultPageSize,
		Keys: Keymap{
			Quit:       "q",
			Add:        "n",
			Edit:       "e",
			Category:   "s",
			Reminder:   "r",
			Complete:   "c",
			Delete:     "d",
			Filter:     "#",
			SwitchView: "tab",
			Command:    ":",
			Detail:     "v",
			Help:       "?",
			Up:         "up,k",
			Down:       "down,j",
			Top:        "home,g",
			Bottom:     "end,G",
			PageUp:     "pgup",
			PageDown:   "pgdown",
			Confirm:    "enter",
			Cancel:     "esc",
		},
	}
}

// Keys splits a comma separated binding into its key names.
func Keys(binding string) []string {
	parts := strings.Split(binding, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
