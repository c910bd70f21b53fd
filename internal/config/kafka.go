package config

// Kafka configures event publishing. Events are disabled when no address is set.
type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"stock-assistant"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"stock-assistant"`
}

func (k Kafka) Enabled() bool {
	return len(k.Addresses) > 0
}
