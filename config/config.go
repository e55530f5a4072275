package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultPath = "."

	// EnvPrefix scopes the environment overrides read on top of the YAML file.
	EnvPrefix = "STOREFRONT_"

	// EnvConfigPath points at an extra directory holding config.yaml.
	EnvConfigPath = EnvPrefix + "CONFIG_PATH"

	defaultAPITimeout            = 15 * time.Second
	defaultVerifyInterval        = 2 * time.Second
	defaultCallbackTimeout       = 10 * time.Minute
	defaultFreeShippingThreshold = 100000
	defaultPerItemDeliveryFee    = 500
	defaultMinorUnitFactor       = 100
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	API APIConfig `json:"api" yaml:"api"`

	Session SessionConfig `json:"session" yaml:"session"`

	Checkout CheckoutConfig `json:"checkout" yaml:"checkout"`

	// Payment configuration for gateway initialisation and verification
	Payment PaymentConfig `json:"payment" yaml:"payment"`

	// QRCode configuration for payment link QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// APIConfig describes how to reach the storefront backend.
type APIConfig struct {
	// Base URL of the REST backend, e.g. http://localhost:5001/api
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Per-request timeout applied on top of the caller's context
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	UserAgent string `json:"userAgent" yaml:"userAgent"`

	CircuitBreaker CircuitBreakerConfig `json:"circuitBreaker" yaml:"circuitBreaker"`
}

// CircuitBreakerConfig controls fail-fast behaviour when the backend keeps failing.
type CircuitBreakerConfig struct {
	Enabled          bool          `json:"enabled" yaml:"enabled"`
	MaxRequests      uint32        `json:"maxRequests" yaml:"maxRequests"`
	Interval         time.Duration `json:"interval" yaml:"interval"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	FailureThreshold uint32        `json:"failureThreshold" yaml:"failureThreshold"`
}

type SessionConfig struct {
	TokenStore TokenStoreConfig `json:"tokenStore" yaml:"tokenStore"`
}

// TokenStoreConfig selects where the bearer token is persisted between runs.
type TokenStoreConfig struct {
	// Provider type: "blob" for a gocloud bucket URL or "redis"
	Provider string `json:"provider" yaml:"provider"`

	// Bucket URL for the blob provider (file:///path, mem://, s3://...)
	URL string `json:"url" yaml:"url"`

	// Object or key name holding the token
	Key string `json:"key" yaml:"key"`

	Redis RedisConfig `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `json:"addr" yaml:"addr"`
	Password string        `json:"password" yaml:"password"`
	DB       int           `json:"db" yaml:"db"`
	TTL      time.Duration `json:"ttl" yaml:"ttl"`
}

// CheckoutConfig holds the pricing rules applied when an order is created.
type CheckoutConfig struct {
	// Subtotal above which delivery is free
	FreeShippingThreshold int64 `json:"freeShippingThreshold" yaml:"freeShippingThreshold"`

	// Flat fee charged per cart line when below the threshold
	PerItemDeliveryFee int64 `json:"perItemDeliveryFee" yaml:"perItemDeliveryFee"`

	// Multiplier converting major currency units into the gateway's minor unit
	MinorUnitFactor int64 `json:"minorUnitFactor" yaml:"minorUnitFactor"`

	Country        string `json:"country" yaml:"country"`
	PaymentMethod  string `json:"paymentMethod" yaml:"paymentMethod"`
	CurrencySymbol string `json:"currencySymbol" yaml:"currencySymbol"`
}

type PaymentConfig struct {
	// Public key handed to the payment widget; checkout refuses to start without it
	PublicKey string `json:"publicKey" yaml:"publicKey"`

	Verify struct {
		MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
		Interval    time.Duration `json:"interval" yaml:"interval"`
	} `json:"verify" yaml:"verify"`

	Callback CallbackConfig `json:"callback" yaml:"callback"`
}

// CallbackConfig configures the local listener that receives gateway redirects.
type CallbackConfig struct {
	Host    string        `json:"host" yaml:"host"`
	Port    int           `json:"port" yaml:"port"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// FreeShippingThresholdAmount returns the threshold as a decimal amount.
func (c CheckoutConfig) FreeShippingThresholdAmount() decimal.Decimal {
	return decimal.NewFromInt(c.FreeShippingThreshold)
}

// PerItemDeliveryFeeAmount returns the per-line fee as a decimal amount.
func (c CheckoutConfig) PerItemDeliveryFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(c.PerItemDeliveryFee)
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Explicit paths win over the working directory
	searchPaths := make([]string, 0, len(configPath)+1)
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			if filepath.IsAbs(path) {
				searchPaths = append(searchPaths, path)

				continue
			}
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}
	searchPaths = append(searchPaths, defaultPath)

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Only STOREFRONT_* variables override the file.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			// Example: STOREFRONT_API_BASEURL -> api.baseUrl
			key := canonicalizeEnvKey(strings.TrimPrefix(k, EnvPrefix), existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	paths := []string{"config", "../config", "../../config"}
	if extra := strings.TrimSpace(os.Getenv(EnvConfigPath)); extra != "" {
		paths = append([]string{extra}, paths...)
	}

	cfg, err := LoadWithEnv[Config]("config", paths...)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaultAPITimeout
	}
	if cfg.Checkout.FreeShippingThreshold <= 0 {
		cfg.Checkout.FreeShippingThreshold = defaultFreeShippingThreshold
	}
	if cfg.Checkout.PerItemDeliveryFee <= 0 {
		cfg.Checkout.PerItemDeliveryFee = defaultPerItemDeliveryFee
	}
	if cfg.Checkout.MinorUnitFactor <= 0 {
		cfg.Checkout.MinorUnitFactor = defaultMinorUnitFactor
	}
	if cfg.Checkout.PaymentMethod == "" {
		cfg.Checkout.PaymentMethod = "Credit/Debit Card"
	}
	if cfg.Payment.Verify.MaxAttempts <= 0 {
		cfg.Payment.Verify.MaxAttempts = 1
	}
	if cfg.Payment.Verify.Interval <= 0 {
		cfg.Payment.Verify.Interval = defaultVerifyInterval
	}
	if cfg.Payment.Callback.Timeout <= 0 {
		cfg.Payment.Callback.Timeout = defaultCallbackTimeout
	}
	if cfg.Session.TokenStore.Key == "" {
		cfg.Session.TokenStore.Key = "authToken"
	}
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.baseUrl is required")
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
