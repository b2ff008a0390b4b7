package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Model    ModelConfig
	Training TrainingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
}

// ModelConfig locates the artifact set written by the training script.
// VectorizerFile and ClassifierFile are base names; each run stores its
// files with the run id appended and the manifest records the exact names.
type ModelConfig struct {
	Dir            string
	VectorizerFile string
	ClassifierFile string
	ManifestFile   string
}

type TrainingConfig struct {
	DatasetPath string
	MaxFeatures int
	TestSize    float64
	Seed        uint64
	MaxIter     int
	C           float64
	Tolerance   float64
	Workers     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			Env:          getEnv("ENV", "development"),
			StaticDir:    getEnv("STATIC_DIR", "../frontend/build"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", "30s"),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", "30s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Model: ModelConfig{
			Dir:            getEnv("MODEL_DIR", "models"),
			VectorizerFile: getEnv("VECTORIZER_FILE", "vectorizer.json"),
			ClassifierFile: getEnv("CLASSIFIER_FILE", "resume_model.json"),
			ManifestFile:   getEnv("MANIFEST_FILE", "manifest.json"),
		},
		Training: TrainingConfig{
			DatasetPath: getEnv("DATASET_PATH", filepath.Join("data", "Resume.csv")),
			MaxFeatures: getEnvAsInt("TRAIN_MAX_FEATURES", 5000),
			TestSize:    getEnvAsFloat("TRAIN_TEST_SIZE", 0.2),
			Seed:        uint64(getEnvAsInt64("TRAIN_SEED", 42)),
			MaxIter:     getEnvAsInt("TRAIN_MAX_ITER", 1000),
			C:           getEnvAsFloat("TRAIN_C", 1.0),
			Tolerance:   getEnvAsFloat("TRAIN_TOLERANCE", 1e-4),
			Workers:     getEnvAsInt("TRAIN_WORKERS", 4),
		},
	}
}

// IsProduction reports whether ENV names a production deployment.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(s.Env), "production")
}

func (m ModelConfig) ManifestPath() string {
	return filepath.Join(m.Dir, m.ManifestFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
