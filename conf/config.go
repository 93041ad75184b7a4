package conf

/*
   Wraps viper for the HL7 parser. Configuration comes from an optional
   local.env file; any key not found there falls through to the process
   environment. The file, once loaded, is treated as immutable for the
   lifetime of the process (tests being the exception via SetEnv).
*/

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

var envVars *viper.Viper

var loaded bool

func setup(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("local")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	// Viper is lazy, do the read and parse of the config file
	if err := v.ReadInConfig(); err != nil {
		loaded = false
	}
	return v
}

func init() {
	locations := []string{
		"shared_files",
		"../shared_files",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc + "/local.env"); err == nil {
			loaded = true
			envVars = setup(loc)
			return
		}
	}
	loaded = false
}

// GetEnv retrieves the value stored in conf, falling back to the process
// environment. Returns "" when the key exists nowhere.
func GetEnv(key string) string {
	if loaded {
		if value := envVars.GetString(key); value != "" {
			return value
		}
	}
	return os.Getenv(key)
}

// LookupEnv augments os.LookupEnv to consult the config file first.
func LookupEnv(key string) (string, bool) {
	if loaded {
		if value := envVars.GetString(key); value != "" {
			return value, true
		}
	}
	return os.LookupEnv(key)
}

// SetEnv adds a key value into conf. The *testing.T parameter is there to
// ensure developers knowingly use it only in test scope.
func SetEnv(protect *testing.T, key string, value string) error {
	if loaded {
		envVars.Set(key, value)
		return nil
	}
	return os.Setenv(key, value)
}

// UnsetEnv removes a variable from both conf and the environment.
func UnsetEnv(protect *testing.T, key string) error {
	if loaded {
		envVars.Set(key, "")
	}
	return os.Unsetenv(key)
}
