package config

import (
	"net"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const defaultSSHPort = "22"

type Config struct {
	Listen      string  `yaml:"listen"`
	MetricsPath string  `yaml:"metrics_path"`
	Interval    float64 `yaml:"interval"`
	Target      Target  `yaml:"target"`
}

func DefaultConfig() Config {
	return Config{
		Listen:      ":9200",
		MetricsPath: "/metrics",
		Interval:    10,
		Target:      DefaultTarget(),
	}
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig()

	type plain Config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

// PollInterval is the pause between the end of one cycle and the start of
// the next.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Listen == "" {
		result = multierror.Append(result, errors.New("listen address is required"))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		result = multierror.Append(result, errors.Errorf("metrics_path %q must start with /", c.MetricsPath))
	}
	if c.Interval < 0 {
		result = multierror.Append(result, errors.Errorf("interval %v must not be negative", c.Interval))
	}
	if err := c.Target.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

type Target struct {
	Address  string  `yaml:"address"`
	Username string  `yaml:"username"`
	Password string  `yaml:"password"`
	Timeout  float64 `yaml:"timeout"`
}

func DefaultTarget() Target {
	return Target{
		Address:  "192.168.1.1",
		Username: "root",
		Timeout:  10,
	}
}

func (t *Target) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*t = DefaultTarget()

	type plain Target
	if err := unmarshal((*plain)(t)); err != nil {
		return err
	}

	return nil
}

// HostPort returns the address with the SSH port appended when it has none.
func (t Target) HostPort() string {
	if _, _, err := net.SplitHostPort(t.Address); err == nil {
		return t.Address
	}
	return net.JoinHostPort(strings.Trim(t.Address, "[]"), defaultSSHPort)
}

func (t Target) ConnectTimeout() time.Duration {
	return time.Duration(t.Timeout * float64(time.Second))
}

func (t Target) Validate() error {
	var result *multierror.Error
	if t.Address == "" {
		result = multierror.Append(result, errors.New("target address is required"))
	}
	if t.Username == "" {
		result = multierror.Append(result, errors.New("target username is required"))
	}
	if t.Password == "" {
		result = multierror.Append(result, errors.New("target password is required"))
	}
	if t.Timeout <= 0 {
		result = multierror.Append(result, errors.Errorf("target timeout %v must be positive", t.Timeout))
	}
	return result.ErrorOrNil()
}
