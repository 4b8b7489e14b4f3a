package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type KafkaConfig struct {
	Brokers         []string
	ClientID        string
	ConsumerGroup   string
	EventsTopic     string
	RepaymentsTopic string
	TLS             bool
	SASLMechanism   string
	SASLUsername    string
	SASLPassword    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ScoreTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

type GRPCConfig struct {
	Reflection  bool
	TLSCertFile string
	TLSKeyFile  string
}

type Config struct {
	GRPCPort    int
	HTTPPort    int
	GRPC        GRPCConfig
	DB          DatabaseConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Log         LogConfig
	Tracing     TracingConfig
	ServiceName string

	// DebtSyncBatchSize is the page size of the debt recalculation sweep.
	DebtSyncBatchSize int
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.Redis.ScoreTTL <= 0 {
		errs = append(errs, errors.New("REDIS_SCORE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads the configuration from the environment. Keys map to upper-case
// variables with dots replaced by underscores, e.g. db.host is DB_HOST.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		GRPCPort: v.GetInt("grpc.port"),
		HTTPPort: v.GetInt("http.port"),
		GRPC: GRPCConfig{
			Reflection:  v.GetBool("grpc.reflection"),
			TLSCertFile: v.GetString("grpc.tls_cert_file"),
			TLSKeyFile:  v.GetString("grpc.tls_key_file"),
		},
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			MaxConns: v.GetInt32("db.max_conns"),
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(v.GetString("kafka.brokers")),
			ClientID:        v.GetString("kafka.client_id"),
			ConsumerGroup:   v.GetString("kafka.consumer_group"),
			EventsTopic:     v.GetString("kafka.events_topic"),
			RepaymentsTopic: v.GetString("kafka.repayments_topic"),
			TLS:             v.GetBool("kafka.tls"),
			SASLMechanism:   v.GetString("kafka.sasl_mechanism"),
			SASLUsername:    v.GetString("kafka.sasl_username"),
			SASLPassword:    v.GetString("kafka.sasl_password"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			ScoreTTL: v.GetDuration("redis.score_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("otel.exporter_otlp_endpoint"),
			Insecure:    v.GetBool("otel.exporter_otlp_insecure"),
			SampleRatio: v.GetFloat64("otel.sample_ratio"),
		},
		ServiceName:       v.GetString("service.name"),
		DebtSyncBatchSize: v.GetInt("debtsync.batch_size"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grpc.port", 9090)
	v.SetDefault("grpc.reflection", false)
	v.SetDefault("grpc.tls_cert_file", "")
	v.SetDefault("grpc.tls_key_file", "")
	v.SetDefault("http.port", 8080)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "credit")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "credit")
	v.SetDefault("db.sslmode", "require")
	v.SetDefault("db.max_conns", 10)

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.client_id", "credit-engine")
	v.SetDefault("kafka.consumer_group", "credit-engine")
	v.SetDefault("kafka.events_topic", "credit.events")
	v.SetDefault("kafka.repayments_topic", "payments.repayments")
	v.SetDefault("kafka.tls", false)
	v.SetDefault("kafka.sasl_mechanism", "")
	v.SetDefault("kafka.sasl_username", "")
	v.SetDefault("kafka.sasl_password", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.score_ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("otel.exporter_otlp_endpoint", "")
	v.SetDefault("otel.exporter_otlp_insecure", false)
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("service.name", "credit-engine")
	v.SetDefault("debtsync.batch_size", 500)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
