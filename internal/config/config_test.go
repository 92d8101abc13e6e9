package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.WebSocket.PongWait != 60*time.Second {
		t.Errorf("pong wait = %v, want 60s", cfg.WebSocket.PongWait)
	}
	if cfg.WebSocket.SendBuffer != 256 {
		t.Errorf("send buffer = %d, want 256", cfg.WebSocket.SendBuffer)
	}
	if cfg.Cassandra.Keyspace != "learnhub" {
		t.Errorf("keyspace = %q, want learnhub", cfg.Cassandra.Keyspace)
	}
	if cfg.Cassandra.MessageTTL != 0 {
		t.Errorf("message ttl = %v, want 0 (keep forever)", cfg.Cassandra.MessageTTL)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache ttl = %v, want 30s", cfg.Cache.TTL)
	}
	if cfg.Archive.Enabled {
		t.Error("archive enabled by default, want disabled")
	}
	if cfg.Log.ServiceName != "chat-relay" {
		t.Errorf("service name = %q, want chat-relay", cfg.Log.ServiceName)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("server port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}
