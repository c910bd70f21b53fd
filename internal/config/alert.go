package config

import "time"

type Alert struct {
	Enabled  bool          `env:"ALERT_ENABLED" envDefault:"true"`
	Interval time.Duration `env:"ALERT_INTERVAL" envDefault:"1h"`
}
