package config

// Overrides carries command-line settings that win over the config file.
// Zero values leave the file/default value untouched.
type Overrides struct {
	ConfigPath   string
	Debug        bool
	Width        int
	Height       int
	Fullscreen   bool
	Windowed     bool
	Model        string
	Shaders      string
	WatchShaders bool
	Mute         bool
}

// apply applies overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if o.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if o.Width > 0 {
		cfg.Graphics.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Graphics.Height = o.Height
	}
	if o.Model != "" {
		cfg.Assets.Model = o.Model
	}
	if o.Shaders != "" {
		cfg.Assets.Shaders = o.Shaders
	}
	if o.WatchShaders {
		cfg.Assets.WatchShaders = true
	}
	if o.Mute {
		cfg.Audio.Muted = true
	}
}
