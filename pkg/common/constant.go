package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"
	EnvKeyIOTDbDSN  string = "IOT_DB_DSN"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	EnvKeyIOTTimezone string = "IOT_TIMEZONE"
	EnvKeyIOTLogDir   string = "IOT_LOG_DIR"

	EnvKeyIOTMqttBroker string = "IOT_MQTT_BROKER"
	EnvKeyIOTMqttTopic  string = "IOT_MQTT_TOPIC"

	EnvKeyIOTBackupSink string = "IOT_BACKUP_SINK"
	EnvKeyIOTBackupDir  string = "IOT_BACKUP_DIR"
	EnvKeyIOTS3Bucket   string = "IOT_S3_BUCKET"
	EnvKeyIOTAWSRegion  string = "IOT_AWS_REGION"

	LoggerNameIOTCore        string = "iot_core"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerNameGrpcServer     string = "grpc_server"
	LoggerNameMqttSubscriber string = "mqtt_subscriber"
	LoggerFieldIOTCategory   string = "category"
	LoggerCategoryIOTIngest  string = "ingest"
	LoggerCategoryIOTAlert   string = "alert"
	LoggerCategoryIOTReport  string = "report"
	LoggerCategoryIOTStats   string = "stats"
	LoggerCategoryIOTExport  string = "export"
	LoggerCategoryIOTDevice  string = "device"
	LoggerCategoryIOTBackup  string = "backup"
)
