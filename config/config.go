package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ✅ Global constants (accessible from other packages)
var UploadPath = "/data/uploads"
var BaseURL = "http://localhost:8080"

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret         string
	JWTAccessTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ SMS Providers (Africa's Talking primary, Twilio fallback)
	AfricasTalkingUsername string
	AfricasTalkingAPIKey   string
	AfricasTalkingSenderID string
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioPhoneNumber      string

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// ✅ Kafka Config
	KafkaBrokers    string
	KafkaAuditTopic string

	// ✅ FCM Config
	FCMCredentialsPath string // Path to Firebase service account JSON
	FCMProjectID       string // Firebase Project ID (optional, can be in JSON)

	// ✅ Admin portal credentials
	AdminEmail    string
	AdminPassword string

	// Number of tile interactions required to complete an event
	RequiredTileCount int
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	if accessTTL == 0 {
		accessTTL = 24
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	requiredTiles, _ := strconv.Atoi(os.Getenv("REQUIRED_TILE_COUNT"))
	if requiredTiles == 0 {
		requiredTiles = 3
	}

	return &Config{
		Port: os.Getenv("PORT"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTAccessTTLHours: accessTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		AfricasTalkingUsername: os.Getenv("AFRICAS_TALKING_USERNAME"),
		AfricasTalkingAPIKey:   os.Getenv("AFRICAS_TALKING_API_KEY"),
		AfricasTalkingSenderID: os.Getenv("AFRICAS_TALKING_SENDER_ID"),
		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:      os.Getenv("TWILIO_PHONE_NUMBER"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  os.Getenv("SMTP_FROM_NAME"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaAuditTopic: os.Getenv("KAFKA_AUDIT_TOPIC"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RequiredTileCount: requiredTiles,
	}
}
