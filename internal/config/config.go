package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/ASB-05/LearnHubPro/pkg/config"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Cassandra CassandraConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Archive   ArchiveConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

type CassandraConfig struct {
	Hosts          []string
	Keyspace       string
	Table          string
	Feed           string
	Consistency    string
	Username       string
	Password       string
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Timeout        time.Duration
	NumConns       int           `mapstructure:"num_conns"`
	MessageTTL     time.Duration `mapstructure:"message_ttl"` // 0 keeps messages forever
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Prefix string
	TTL    time.Duration
}

type ArchiveConfig struct {
	Enabled    bool
	Brokers    string
	Topic      string
	Partitions int
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)
	v.SetDefault("cassandra.hosts", []string{"localhost:9042"})
	v.SetDefault("cassandra.keyspace", "learnhub")
	v.SetDefault("cassandra.table", "chat_messages")
	v.SetDefault("cassandra.feed", "global")
	v.SetDefault("cassandra.consistency", "LOCAL_QUORUM")
	v.SetDefault("cassandra.connect_timeout", "10s")
	v.SetDefault("cassandra.timeout", "5s")
	v.SetDefault("cassandra.num_conns", 2)
	v.SetDefault("cassandra.message_ttl", "0s")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.prefix", "chat:history")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.brokers", "localhost:9092")
	v.SetDefault("archive.topic", "chat-archive")
	v.SetDefault("archive.partitions", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "chat-relay")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("cassandra.hosts", "CASSANDRA_HOSTS")
	v.BindEnv("cassandra.keyspace", "CASSANDRA_KEYSPACE")
	v.BindEnv("cassandra.username", "CASSANDRA_USERNAME")
	v.BindEnv("cassandra.password", "CASSANDRA_PASSWORD")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("archive.enabled", "ARCHIVE_ENABLED")
	v.BindEnv("archive.brokers", "KAFKA_BROKERS")
	v.BindEnv("archive.topic", "KAFKA_TOPIC")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Cassandra.ConnectTimeout = parseDuration(v, "cassandra.connect_timeout", 10*time.Second)
	cfg.Cassandra.Timeout = parseDuration(v, "cassandra.timeout", 5*time.Second)
	cfg.Cassandra.MessageTTL = parseDuration(v, "cassandra.message_ttl", 0)
	cfg.Cache.TTL = parseDuration(v, "cache.ttl", 30*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
