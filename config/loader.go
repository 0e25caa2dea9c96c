package config

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
)

// SafeConfig holds the active config. An empty configFile means defaults
// plus overrides only.
type SafeConfig struct {
	sync.RWMutex
	configFile string
	override   func(*Config)
	c          *Config

	reloadSuccess prometheus.Gauge
	reloadSeconds prometheus.Gauge
}

func New(configFile string, override func(*Config)) *SafeConfig {
	return &SafeConfig{
		c:          &Config{},
		configFile: configFile,
		override:   override,
		reloadSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ddwrt_exporter",
			Name:      "config_last_reload_successful",
			Help:      "DD-WRT exporter config loaded successfully.",
		}),
		reloadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ddwrt_exporter",
			Name:      "config_last_reload_success_timestamp_seconds",
			Help:      "Timestamp of the last successful configuration reload.",
		}),
	}
}

func (sc *SafeConfig) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(sc.reloadSuccess, sc.reloadSeconds)
}

func (sc *SafeConfig) Get() *Config {
	sc.RLock()
	defer sc.RUnlock()
	return sc.c
}

// LoadConfig reads the file, applies the overrides and validates the result.
// On error the previously loaded config stays active.
func (sc *SafeConfig) LoadConfig() (err error) {
	c := DefaultConfig()
	defer func() {
		if err != nil {
			sc.reloadSuccess.Set(0)
		} else {
			sc.reloadSuccess.Set(1)
			sc.reloadSeconds.SetToCurrentTime()
		}
	}()

	if sc.configFile != "" {
		err = decodeFile(sc.configFile, &c)
		if err != nil {
			return err
		}
	}

	if sc.override != nil {
		sc.override(&c)
	}

	err = c.Validate()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	sc.Lock()
	sc.c = &c
	defer sc.Unlock()

	return nil
}

func decodeFile(configFile string, c *Config) error {
	yamlReader, err := os.Open(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	defer yamlReader.Close()
	decoder := yaml.NewDecoder(yamlReader, yaml.DisallowUnknownField())

	err = decoder.Decode(c)
	if err != nil && err != io.EOF {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}
