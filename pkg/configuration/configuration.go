package configuration

import (
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type DefaultValueFunction func(existingValue interface{}) interface{}

type configType string

const inMemory configType = "in-memory"
const jsonFile configType = "json"

const configFileName = "console"

// Configuration is an interface for managing configuration values.
type Configuration interface {
	Clone() Configuration

	Set(key string, value interface{})
	Unset(key string)
	Get(key string) interface{}
	IsSet(key string) bool
	GetString(key string) string
	GetStringSlice(key string) []string
	GetBool(key string) bool
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetUrl(key string) *url.URL

	AddFlagSet(flagset *pflag.FlagSet) error
	AllKeys() []string
	AddDefaultValue(key string, defaultValue DefaultValueFunction)
	AddAlternativeKeys(key string, altKeys []string)

	// PersistInStorage ensures that when Set or Unset is called with the given key, the change is written
	// through to the config file.
	PersistInStorage(key string)
	SetStorage(storage Storage)
	GetStorage() Storage
}

// extendedViper is a wrapper around the viper library.
// It adds support for default value functions, alternative keys and selective persistence.
type extendedViper struct {
	viper           *viper.Viper
	alternativeKeys map[string][]string
	defaultValues   map[string]DefaultValueFunction
	configType      configType

	// persistedKeys stores the keys that are written through to storage on Set/Unset.
	// Only specific keys are persisted, so viper's native write support is not used.
	persistedKeys map[string]bool
	storage       Storage
	mutex         sync.Mutex
}

// StandardDefaultValueFunction returns the given default value if no value was explicitly set.
func StandardDefaultValueFunction(defaultValue interface{}) DefaultValueFunction {
	return func(existingValue interface{}) interface{} {
		if existingValue != nil {
			return existingValue
		}
		return defaultValue
	}
}

// determineBasePath returns the base path for the configuration files.
func determineBasePath() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return path.Join(homedir, ".config", "configstore")
}

// CreateConfigurationFile creates a configuration file with the given name.
func CreateConfigurationFile(filename string) (string, error) {
	configPath := determineBasePath()
	filepath := path.Join(configPath, filename)

	folder := path.Dir(filepath)
	err := os.MkdirAll(folder, 0755)
	if err != nil {
		return "", err
	}

	err = os.WriteFile(filepath, []byte{}, 0755)
	if err != nil {
		return "", err
	}

	return filepath, err
}

// New creates a new console configuration backed by the default config file.
func New() Configuration {
	return NewFromFiles(configFileName)
}

// NewFromFiles creates a new Configuration instance from the given files.
func NewFromFiles(files ...string) Configuration {
	config := createViperDefaultConfig()
	config.configType = jsonFile
	readConfigFilesIntoViper(files, config)
	return config
}

// NewInMemory creates a new Configuration instance that is not persisted to disk.
func NewInMemory() Configuration {
	config := createViperDefaultConfig()
	config.configType = inMemory
	config.storage = &EmptyStorage{}
	return config
}

func createViperDefaultConfig() *extendedViper {
	config := &extendedViper{
		viper:           viper.New(),
		alternativeKeys: make(map[string][]string),
		defaultValues:   make(map[string]DefaultValueFunction),
		persistedKeys:   make(map[string]bool),
	}
	config.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.viper.AutomaticEnv()
	return config
}

func readConfigFilesIntoViper(files []string, config *extendedViper) {
	configPath := determineBasePath()
	config.storage = createFileStorage(configPath)

	for _, file := range files {
		config.viper.SetConfigName(file)
	}

	config.viper.AddConfigPath(configPath)
	config.viper.AddConfigPath(".")

	_ = config.viper.ReadInConfig()
}

// Clone creates a copy of the current configuration.
func (ev *extendedViper) Clone() Configuration {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()

	var clone Configuration
	if ev.configType == jsonFile {
		configFileUsed := ev.viper.ConfigFileUsed()
		clone = NewFromFiles(configFileUsed)
	} else {
		clone = NewInMemory()
	}

	clone.SetStorage(ev.storage)
	keys := ev.viper.AllKeys()
	for i := range keys {
		if isSet := ev.viper.IsSet(keys[i]); isSet {
			value := ev.viper.Get(keys[i])
			clone.Set(keys[i], value)
		}
	}

	for k, v := range ev.defaultValues {
		clone.AddDefaultValue(k, v)
	}

	for k, v := range ev.alternativeKeys {
		clone.AddAlternativeKeys(k, v)
	}

	return clone
}

// Set sets a configuration value.
func (ev *extendedViper) Set(key string, value interface{}) {
	ev.mutex.Lock()
	ev.viper.Set(key, value)
	persist := ev.storage != nil && ev.persistedKeys[key]
	ev.mutex.Unlock()

	if persist {
		_ = ev.storage.Set(key, value)
	}
}

// Unset removes a configuration value, deleting it from storage if the key is persisted.
func (ev *extendedViper) Unset(key string) {
	ev.mutex.Lock()
	ev.viper.Set(key, nil)
	persist := ev.storage != nil && ev.persistedKeys[key]
	ev.mutex.Unlock()

	if persist {
		_ = ev.storage.Delete(key)
	}
}

func (ev *extendedViper) get(key string) interface{} {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()

	result := ev.viper.Get(key)
	isSet := ev.viper.IsSet(key)

	// try to lookup alternative keys if available
	if !isSet {
		for _, altKey := range ev.alternativeKeys[key] {
			result = ev.viper.Get(altKey)
		}
	}

	return result
}

// IsSet returns true if a value for the given key was explicitly set.
func (ev *extendedViper) IsSet(key string) bool {
	isSet := ev.viper.IsSet(key)
	if !isSet {
		for _, altKey := range ev.alternativeKeys[key] {
			isSet = ev.viper.IsSet(altKey)
		}
	}
	return isSet
}

// Get returns a configuration value.
func (ev *extendedViper) Get(key string) interface{} {
	value := ev.get(key)

	if ev.defaultValues[key] != nil {
		value = ev.defaultValues[key](value)
	}

	return value
}

// GetString returns a configuration value as string.
func (ev *extendedViper) GetString(key string) string {
	result := ev.Get(key)
	if result == nil {
		return ""
	}

	if s, ok := result.(string); ok {
		return s
	}
	return ""
}

// GetBool returns a configuration value as bool.
func (ev *extendedViper) GetBool(key string) bool {
	result := ev.Get(key)
	if result == nil {
		return false
	}

	switch v := result.(type) {
	case bool:
		return v
	case string:
		boolResult, _ := strconv.ParseBool(v)
		return boolResult
	}

	return false
}

// GetInt returns a configuration value as int.
func (ev *extendedViper) GetInt(key string) int {
	result := ev.Get(key)
	if result == nil {
		return 0
	}

	switch v := result.(type) {
	case string:
		temp, _ := strconv.ParseInt(v, 10, 32)
		return int(temp)
	case float32:
		return int(v)
	case float64:
		return int(v)
	case int:
		return v
	}

	return 0
}

// GetDuration interprets a configuration value as a number of milliseconds.
func (ev *extendedViper) GetDuration(key string) time.Duration {
	return time.Duration(ev.GetInt(key)) * time.Millisecond
}

// GetUrl returns a configuration value as url.URL.
func (ev *extendedViper) GetUrl(key string) *url.URL {
	urlString := ev.GetString(key)
	u, err := url.Parse(urlString)
	if err != nil {
		return nil
	}
	return u
}

// AddFlagSet adds a flag set to the configuration.
func (ev *extendedViper) AddFlagSet(flagset *pflag.FlagSet) error {
	return ev.viper.BindPFlags(flagset)
}

// GetStringSlice returns a configuration value as []string.
func (ev *extendedViper) GetStringSlice(key string) []string {
	output := []string{}

	result := ev.Get(key)
	if result == nil {
		return output
	}

	switch v := result.(type) {
	case []string:
		return v
	case []interface{}:
		for i := range v {
			if s, ok := v[i].(string); ok {
				output = append(output, s)
			}
		}
	}

	return output
}

// AllKeys returns all keys of the configuration.
func (ev *extendedViper) AllKeys() []string {
	keys := ev.viper.AllKeys()

	for k := range ev.defaultValues {
		keys = append(keys, k)
	}

	return keys
}

// AddDefaultValue adds a default value function to the configuration.
func (ev *extendedViper) AddDefaultValue(key string, defaultValue DefaultValueFunction) {
	ev.defaultValues[key] = defaultValue
}

// AddAlternativeKeys adds alternative keys to the configuration.
func (ev *extendedViper) AddAlternativeKeys(key string, altKeys []string) {
	ev.alternativeKeys[key] = altKeys
}

func (ev *extendedViper) PersistInStorage(key string) {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	ev.persistedKeys[key] = true
}

func (ev *extendedViper) SetStorage(storage Storage) {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	ev.storage = storage
}

func (ev *extendedViper) GetStorage() Storage {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	return ev.storage
}

// createFileStorage attempts to create a JSON file storage in the configPath.
func createFileStorage(configPath string) Storage {
	file := path.Join(configPath, configFileName+".json")
	return NewJsonStorage(file)
}
