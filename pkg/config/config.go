package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"liyu1981.xyz/container-monitor-service/pkg/common"
)

type Config struct {
	DBType string
	DBPath string
	DBDSN  string

	HttpHostPort string
	GrpcHostPort string

	DefaultRate  float64
	DefaultBurst int

	Timezone string

	MqttBroker string
	MqttTopic  string

	BackupSink string
	BackupDir  string
	S3Bucket   string
	AWSRegion  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(common.EnvKeyIOTDBType, "file")
	v.SetDefault(common.EnvKeyIOTDbPath, "containers.db")
	v.SetDefault(common.EnvKeyIOTDbDSN, "")
	v.SetDefault(common.EnvKeyIOTHttpHostPort, ":1080")
	v.SetDefault(common.EnvKeyIOTGrpcHostPort, "")
	v.SetDefault(common.EnvKeyIOTDefaultRate, 5.0)
	v.SetDefault(common.EnvKeyIOTDefaultBurst, 10)
	v.SetDefault(common.EnvKeyIOTTimezone, "Local")
	v.SetDefault(common.EnvKeyIOTMqttBroker, "")
	v.SetDefault(common.EnvKeyIOTMqttTopic, "containers/reports")
	v.SetDefault(common.EnvKeyIOTBackupSink, "file")
	v.SetDefault(common.EnvKeyIOTBackupDir, "backups")
	v.SetDefault(common.EnvKeyIOTS3Bucket, "")
	v.SetDefault(common.EnvKeyIOTAWSRegion, "us-east-1")
}

// Load reads an optional .env file, then environment variables over the
// defaults above.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBType:       v.GetString(common.EnvKeyIOTDBType),
		DBPath:       v.GetString(common.EnvKeyIOTDbPath),
		DBDSN:        v.GetString(common.EnvKeyIOTDbDSN),
		HttpHostPort: v.GetString(common.EnvKeyIOTHttpHostPort),
		GrpcHostPort: v.GetString(common.EnvKeyIOTGrpcHostPort),
		DefaultRate:  v.GetFloat64(common.EnvKeyIOTDefaultRate),
		DefaultBurst: v.GetInt(common.EnvKeyIOTDefaultBurst),
		Timezone:     v.GetString(common.EnvKeyIOTTimezone),
		MqttBroker:   v.GetString(common.EnvKeyIOTMqttBroker),
		MqttTopic:    v.GetString(common.EnvKeyIOTMqttTopic),
		BackupSink:   v.GetString(common.EnvKeyIOTBackupSink),
		BackupDir:    v.GetString(common.EnvKeyIOTBackupDir),
		S3Bucket:     v.GetString(common.EnvKeyIOTS3Bucket),
		AWSRegion:    v.GetString(common.EnvKeyIOTAWSRegion),
	}

	switch cfg.DBType {
	case "file", "memory":
	case "postgres":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("%s is required when %s=postgres", common.EnvKeyIOTDbDSN, common.EnvKeyIOTDBType)
		}
	default:
		return nil, fmt.Errorf("unknown %s: %q", common.EnvKeyIOTDBType, cfg.DBType)
	}

	switch cfg.BackupSink {
	case "file":
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("%s is required when %s=s3", common.EnvKeyIOTS3Bucket, common.EnvKeyIOTBackupSink)
		}
	default:
		return nil, fmt.Errorf("unknown %s: %q", common.EnvKeyIOTBackupSink, cfg.BackupSink)
	}

	if cfg.DefaultRate < 0 || cfg.DefaultBurst < 0 {
		return nil, fmt.Errorf("%s and %s must not be negative", common.EnvKeyIOTDefaultRate, common.EnvKeyIOTDefaultBurst)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the zone used for every calendar-date comparison.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", common.EnvKeyIOTTimezone, c.Timezone, err)
	}
	return loc, nil
}
