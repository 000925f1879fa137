package config

import "time"

// Support definition support_service YAML structure
type Support struct {
	Port string `mapstructure:"port"`

	Store      StoreConfig    `mapstructure:"store"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
	Events     EventsConfig   `mapstructure:"events"`
	Chat       ChatConfig     `mapstructure:"chat"`
}

// StoreConfig select the chat store backend: "postgres" or "mongo"
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// EventsConfig select the chat event sink: "kafka", "rabbitmq" or "none"
type EventsConfig struct {
	Driver string `mapstructure:"driver"`
}

// ChatConfig definition conversation tuning
type ChatConfig struct {
	CustomerPageSize int           `mapstructure:"customer_page_size"`
	StaffPageSize    int           `mapstructure:"staff_page_size"`
	InboxPageSize    int           `mapstructure:"inbox_page_size"`
	TranscriptPoll   time.Duration `mapstructure:"transcript_poll"`
	BadgePoll        time.Duration `mapstructure:"badge_poll"`
	IdempotencyTTL   time.Duration `mapstructure:"idempotency_ttl"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
	// Addr is used when no sentinel is configured
	Addr string `mapstructure:"addr"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryCount    int      `mapstructure:"retry_count"`
	RetryInterval int      `mapstructure:"retry_interval"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Queue         string `mapstructure:"queue"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// WithDefaults fill zero chat values with the storefront defaults
func (c ChatConfig) WithDefaults() ChatConfig {
	if c.CustomerPageSize <= 0 {
		c.CustomerPageSize = 50
	}
	if c.StaffPageSize <= 0 {
		c.StaffPageSize = 100
	}
	if c.InboxPageSize <= 0 {
		c.InboxPageSize = 20
	}
	if c.TranscriptPoll <= 0 {
		c.TranscriptPoll = 3 * time.Second
	}
	if c.BadgePoll <= 0 {
		c.BadgePoll = 5 * time.Second
	}
	if c.IdempotencyTTL <= 0 {
		c.IdempotencyTTL = 10 * time.Minute
	}
	return c
}
