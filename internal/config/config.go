package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type TrackerConfig struct {
	Env string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	TrackerDB      `yaml:"tracker_db"`
	Redis          `yaml:"redis"`
	KafkaService   `yaml:"kafka-service"`
	LogConfig      `yaml:"log_config"`
	WorkflowConfig `yaml:"workflow"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TrackerDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	Addr string `yaml:"addr"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"transaction-events"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type WorkflowConfig struct {
	IdleThresholdDays int           `yaml:"idle_threshold_days" env-default:"2"`
	SweepInterval     time.Duration `yaml:"sweep_interval" env-default:"15m"`
	OverdueDebounce   time.Duration `yaml:"overdue_debounce" env-default:"24h"`
}

func MustLoad() *TrackerConfig {

	// Processing env config variable and file
	configPath := os.Getenv("TRACKER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("TRACKER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg TrackerConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
