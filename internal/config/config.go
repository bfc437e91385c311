package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

// API describes the storefront backend the engine talks to for cart-domain calls.
type API struct {
	BaseURL         string        `yaml:"BASE_URL" env:"API_BASE_URL" env-required:"true"`
	Timeout         time.Duration `yaml:"TIMEOUT" env:"API_TIMEOUT" env-default:"10s"`
	CartURLPatterns []string      `yaml:"CART_URL_PATTERNS" env:"API_CART_URL_PATTERNS" env-default:"/api/v1/cart"`
}

type Storage struct {
	Driver    string        `yaml:"DRIVER" env:"STORAGE_DRIVER" env-default:"file"`
	Path      string        `yaml:"PATH" env:"STORAGE_PATH" env-default:"./data/device.json"`
	Key       string        `yaml:"KEY" env:"STORAGE_KEY" env-default:"device_id"`
	DeviceTTL time.Duration `yaml:"DEVICE_TTL" env:"STORAGE_DEVICE_TTL" env-default:"8760h"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

// Pricing holds the fixed fee tiers, in whole currency units.
type Pricing struct {
	DoorDeliveryFee      int64 `yaml:"DOOR_DELIVERY_FEE" env:"DOOR_DELIVERY_FEE" env-default:"15000"`
	AlternateDeliveryFee int64 `yaml:"ALTERNATE_DELIVERY_FEE" env:"ALTERNATE_DELIVERY_FEE" env-default:"0"`
	InsuranceFee         int64 `yaml:"INSURANCE_FEE" env:"INSURANCE_FEE" env-default:"2000"`
}

type Timers struct {
	AddSuccess         time.Duration `yaml:"ADD_SUCCESS" env:"TIMER_ADD_SUCCESS" env-default:"1000ms"`
	SelectionMessage   time.Duration `yaml:"SELECTION_MESSAGE" env:"TIMER_SELECTION_MESSAGE" env-default:"3000ms"`
	MergeRedirectDelay time.Duration `yaml:"MERGE_REDIRECT_DELAY" env:"TIMER_MERGE_REDIRECT_DELAY" env-default:"3000ms"`
	ModalClose         time.Duration `yaml:"MODAL_CLOSE" env:"TIMER_MODAL_CLOSE" env-default:"300ms"`
}

type Promo struct {
	DisplayLimit int `yaml:"DISPLAY_LIMIT" env:"PROMO_DISPLAY_LIMIT" env-default:"10"`
}

type Catalog struct {
	Path string `yaml:"PATH" env:"CATALOG_PATH" env-default:"./config/catalog.yaml"`
}

type OtelConfig struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"foodcart-engine"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:"localhost:4318"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	API          API          `yaml:"api"`
	Storage      Storage      `yaml:"storage"`
	RedisConnect RedisConnect `yaml:"redis"`
	Pricing      Pricing      `yaml:"pricing"`
	Timers       Timers       `yaml:"timers"`
	Promo        Promo        `yaml:"promo"`
	Catalog      Catalog      `yaml:"catalog"`
	Otel         OtelConfig   `yaml:"otel"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "./config/local.yaml"
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}

	return &cfg, nil
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
