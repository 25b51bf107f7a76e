// Config loading for the relations CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/relations/internal/httpapi"
	"github.com/mesh-intelligence/relations/internal/paths"
	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyLogFile        = "log.file"
	cfgKeyLogLevel       = "log.level"
	cfgKeyServerAddr     = "server.addr"
	cfgKeyItemDataURL    = "endpoints.item_data"
	cfgKeyBaseSelections = "endpoints.base_selections"

	defaultBackend  = types.BackendSQLite
	defaultLogLevel = "info"
)

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend   string           `yaml:"backend"`
	DataDir   string           `yaml:"data_dir,omitempty"`
	Log       logSection       `yaml:"log"`
	Server    serverSection    `yaml:"server"`
	Endpoints endpointsSection `yaml:"endpoints"`
	Fields    []types.Field    `yaml:"fields"`
}

type logSection struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level"`
}

type serverSection struct {
	Addr string `yaml:"addr"`
}

type endpointsSection struct {
	ItemData       string `yaml:"item_data"`
	BaseSelections string `yaml:"base_selections"`
}

// settings is the resolved configuration of one CLI invocation.
type settings struct {
	ConfigDir  string
	Backend    string
	DataDir    string
	LogFile    string
	LogLevel   string
	ServerAddr string
	Endpoints  relationship.Endpoints
	Fields     []types.Field
}

// defaultConfig returns the content of a fresh config.yaml.
func defaultConfig(dataDir string) configFile {
	return configFile{
		Backend: defaultBackend,
		DataDir: dataDir,
		Log:     logSection{Level: defaultLogLevel},
		Server:  serverSection{Addr: httpapi.DefaultAddr},
		Endpoints: endpointsSection{
			ItemData:       relationship.DefaultItemDataURL,
			BaseSelections: relationship.DefaultBaseSelectionsURL,
		},
		Fields: []types.Field{},
	}
}

// ensureDefaultConfigFile creates configDir and a default config.yaml when
// the file does not exist. An existing file is left untouched.
func ensureDefaultConfigFile(configDir, dataDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfig(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadSettings reads config.yaml from configDir with Viper. A missing file
// yields the defaults.
func loadSettings(configDir, dataDirFlag string) (*settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyServerAddr, httpapi.DefaultAddr)
	v.SetDefault(cfgKeyItemDataURL, relationship.DefaultItemDataURL)
	v.SetDefault(cfgKeyBaseSelections, relationship.DefaultBaseSelectionsURL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	fields, err := loadFields(paths.ConfigFile(configDir))
	if err != nil {
		return nil, err
	}

	return &settings{
		ConfigDir:  configDir,
		Backend:    v.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		LogFile:    paths.ResolveLogFile(configDir, v.GetString(cfgKeyLogFile)),
		LogLevel:   v.GetString(cfgKeyLogLevel),
		ServerAddr: v.GetString(cfgKeyServerAddr),
		Endpoints: relationship.Endpoints{
			ItemData:       v.GetString(cfgKeyItemDataURL),
			BaseSelections: v.GetString(cfgKeyBaseSelections),
		},
		Fields: fields,
	}, nil
}

// loadFields decodes the fields list of config.yaml. Viper lowercases nested
// map keys, so field configurations are decoded with yaml.v3 directly.
func loadFields(path string) ([]types.Field, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc struct {
		Fields []types.Field `yaml:"fields"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}
	return doc.Fields, nil
}
