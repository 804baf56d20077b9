package config

// Config is the top-level talkboard configuration, corresponding to .talkboard.yml.
type Config struct {
	BaseURL          string `yaml:"base_url" koanf:"base_url"`
	DataDir          string `yaml:"data_dir" koanf:"data_dir"`
	LoginPage        string `yaml:"login_page" koanf:"login_page"`
	TimeoutSeconds   int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	PlaceholderImage string `yaml:"placeholder_image" koanf:"placeholder_image"`
	DebounceMS       int    `yaml:"debounce_ms" koanf:"debounce_ms"`
}
