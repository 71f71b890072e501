package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EmailConfig struct {
	APIKey  string `yaml:"api_key"`
	From    string `yaml:"from"`
	BaseURL string `yaml:"base_url"`
}

type SMSConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	From  string `yaml:"from"`
}

type WorkerConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	Queue       string `yaml:"queue"`
}

type CronConfig struct {
	// robfig/cron specs for the reminder batch jobs.
	Reminder24h string `yaml:"reminder_24h"`
	Reminder1h  string `yaml:"reminder_1h"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	MQ     MQConfig     `yaml:"mq"`
	Redis  RedisConfig  `yaml:"redis"`
	Email  EmailConfig  `yaml:"email"`
	SMS    SMSConfig    `yaml:"sms"`
	Worker WorkerConfig `yaml:"worker"`
	Cron   CronConfig   `yaml:"cron"`
}

func Load() *Config {
	f, err := os.Open("config.yaml")
	if err != nil {
		log.Fatalf("failed to open config.yaml: %v", err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config.yaml: %v", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg
}

func overrideFromEnv(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DB.Name = name
	}

	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		cfg.Email.APIKey = key
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		cfg.Email.From = from
	}

	if url := os.Getenv("SMS_GATEWAY_URL"); url != "" {
		cfg.SMS.URL = url
	}
	if token := os.Getenv("SMS_GATEWAY_TOKEN"); token != "" {
		cfg.SMS.Token = token
	}

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		cfg.Worker.MetricsAddr = addr
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Email.From == "" {
		cfg.Email.From = "ServicesArtisans <noreply@servicesartisans.fr>"
	}
	if cfg.Worker.MetricsAddr == "" {
		cfg.Worker.MetricsAddr = ":9090"
	}
	if cfg.Worker.Queue == "" {
		cfg.Worker.Queue = "notify.dispatch.q"
	}
	if cfg.Cron.Reminder24h == "" {
		cfg.Cron.Reminder24h = "0 * * * *" // hourly
	}
	if cfg.Cron.Reminder1h == "" {
		cfg.Cron.Reminder1h = "*/10 * * * *" // every 10 minutes
	}
}
