package config

// SupportedConfigFiles lists the config file names searched, in order.
var SupportedConfigFiles = []string{
	"mrm.yaml",
	"mrm.yml",
	"mrm.toml",
	"mrm.json",
}

// FileConfig is the optional on-disk configuration. Empty fields leave the
// value to the next resolution layer.
type FileConfig struct {
	Endpoint string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty" toml:"model,omitempty" json:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty" toml:"api_key,omitempty" json:"api_key,omitempty"`
}
