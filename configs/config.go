package configs

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RewardConfig controls what a first review on an order earns.
type RewardConfig struct {
	Points          int
	CouponEnabled   bool
	CouponDiscount  int
	CouponValidDays int
	CouponMinRating int
}

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	UploadDir   string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	StatsCacheTTL time.Duration

	KafkaBrokers   []string
	JaegerEndpoint string

	Reward          RewardConfig
	MaxReviewImages int

	AdminEmail    string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_SOURCE", "wedding.db")
	v.SetDefault("PORT", "8000")
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STATS_CACHE_TTL", "60s")
	v.SetDefault("REWARD_POINTS", 10)
	v.SetDefault("REWARD_COUPON_ENABLED", true)
	v.SetDefault("REWARD_COUPON_DISCOUNT", 10)
	v.SetDefault("REWARD_COUPON_VALID_DAYS", 30)
	v.SetDefault("REWARD_COUPON_MIN_RATING", 4)
	v.SetDefault("REVIEW_MAX_IMAGES", 2)
}

// LoadConfig reads .env (optional), config.yaml (optional) and the environment, in that order of
// increasing precedence.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("no .env file, using environment only")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		zap.L().Debug("no config.yaml found", zap.Error(err))
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		DBDriver:       v.GetString("DB_DRIVER"),
		DBSource:       v.GetString("DB_SOURCE"),
		Port:           v.GetString("PORT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		StatsCacheTTL:  v.GetDuration("STATS_CACHE_TTL"),
		KafkaBrokers:   splitList(v.GetString("KAFKA_BROKERS")),
		JaegerEndpoint: v.GetString("JAEGER_ENDPOINT"),
		Reward: RewardConfig{
			Points:          v.GetInt("REWARD_POINTS"),
			CouponEnabled:   v.GetBool("REWARD_COUPON_ENABLED"),
			CouponDiscount:  v.GetInt("REWARD_COUPON_DISCOUNT"),
			CouponValidDays: v.GetInt("REWARD_COUPON_VALID_DAYS"),
			CouponMinRating: v.GetInt("REWARD_COUPON_MIN_RATING"),
		},
		MaxReviewImages: v.GetInt("REVIEW_MAX_IMAGES"),
		AdminEmail:      v.GetString("ADMIN_EMAIL"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
	}
}

// Defaults is the configuration with every key at its default value.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	return FromViper(v)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
