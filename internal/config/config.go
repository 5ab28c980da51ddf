package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Artifact  ArtifactConfig
	Predictor PredictorConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	CORSOrigins  []string
}

// ArtifactConfig locates the serialized pipeline on disk. Layout selects one
// of three shapes: "split" (model + scaler + feature names in separate files),
// "pipeline" (one self-contained file), or "bundle" (one file with a named
// {model, scaler, features} mapping).
type ArtifactConfig struct {
	Layout       string
	ModelPath    string
	ScalerPath   string
	FeaturesPath string
	BundlePath   string
}

type PredictorConfig struct {
	// Derive enables computation of the engineered columns
	// (Age_Group, First_Sex_Age, HPV_Exposure_Duration, Pregnancy_Density)
	// when the artifact's feature list names them.
	Derive bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_MAX_BODY_BYTES", 1<<20)
	v.SetDefault("SERVER_CORS_ORIGINS", "*")
	v.SetDefault("ARTIFACT_LAYOUT", "split")
	v.SetDefault("ARTIFACT_MODEL_PATH", "best_model.json")
	v.SetDefault("ARTIFACT_SCALER_PATH", "scaler.json")
	v.SetDefault("ARTIFACT_FEATURES_PATH", "feature_names.json")
	v.SetDefault("ARTIFACT_BUNDLE_PATH", "model_bundle.json")
	v.SetDefault("PREDICTOR_DERIVE", true)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			MaxBodyBytes: v.GetInt64("SERVER_MAX_BODY_BYTES"),
			CORSOrigins:  v.GetStringSlice("SERVER_CORS_ORIGINS"),
		},
		Artifact: ArtifactConfig{
			Layout:       v.GetString("ARTIFACT_LAYOUT"),
			ModelPath:    v.GetString("ARTIFACT_MODEL_PATH"),
			ScalerPath:   v.GetString("ARTIFACT_SCALER_PATH"),
			FeaturesPath: v.GetString("ARTIFACT_FEATURES_PATH"),
			BundlePath:   v.GetString("ARTIFACT_BUNDLE_PATH"),
		},
		Predictor: PredictorConfig{
			Derive: v.GetBool("PREDICTOR_DERIVE"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
