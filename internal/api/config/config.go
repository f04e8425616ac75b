package config

// Config 配置主体
type Config struct {
	Server                 ServerConfig       `mapstructure:"server"`
	DB                     DBConfig           `mapstructure:"database"`
	Redis                  RedisConfig        `mapstructure:"redis"`
	Mongo                  MongoConfig        `mapstructure:"mongo"`
	Elastic                ElasticConfig      `mapstructure:"elastic"`
	Kafka                  KafkaConfig        `mapstructure:"kafka"`
	KafkaRatingConsumer    KafkaConsumerTopic `mapstructure:"kafka_rating_consumer"`
	KafkaFavoriteConsumer  KafkaConsumerTopic `mapstructure:"kafka_favorite_consumer"`
	KafkaOperationConsumer KafkaConsumerTopic `mapstructure:"kafka_operation_consumer"`
	JWT                    JWTConfig          `mapstructure:"jwt"`
	Ranking                RankingConfig      `mapstructure:"ranking"`
	IDCodec                IDCodecConfig      `mapstructure:"id_codec"`
	Cron                   CronConfig         `mapstructure:"cron"`
	Log                    LogConfig          `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RedisConfig 超时与慢命令阈值单位均为毫秒，0 表示使用默认值
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	PoolSize      int    `mapstructure:"pool_size"`
	MinIdleConns  int    `mapstructure:"min_idle_conns"`
	DialTimeout   int    `mapstructure:"dial_timeout"`
	ReadTimeout   int    `mapstructure:"read_timeout"`
	WriteTimeout  int    `mapstructure:"write_timeout"`
	SlowThreshold int    `mapstructure:"slow_threshold"`
}

// MongoConfig 超时单位为秒
type MongoConfig struct {
	URL                    string `mapstructure:"url"`
	Database               string `mapstructure:"database"`
	MaxPoolSize            uint64 `mapstructure:"max_pool_size"`
	MinPoolSize            uint64 `mapstructure:"min_pool_size"`
	ConnectTimeout         int    `mapstructure:"connect_timeout"`
	ServerSelectionTimeout int    `mapstructure:"server_selection_timeout"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	OperationIndex string `mapstructure:"operation_index"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	ClientID string         `mapstructure:"client_id"`
	Version  string         `mapstructure:"version"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	InitialOffset     string `mapstructure:"initial_offset"` // newest | oldest
	SessionTimeout    int    `mapstructure:"session_timeout"`
	HeartbeatInterval int    `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int    `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int    `mapstructure:"max_processing_time"`
}

// KafkaConsumerTopic 单个消费组订阅的 Canal topic
type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// RankingConfig 热度分配置，倍率可为负数
type RankingConfig struct {
	InitialScore      int64 `mapstructure:"initial_score"`
	LikeMultiplier    int64 `mapstructure:"like_multiplier"`
	DislikeMultiplier int64 `mapstructure:"dislike_multiplier"`
	ViewMultiplier    int64 `mapstructure:"view_multiplier"`
	HotKeySize        int64 `mapstructure:"hot_key_size"` // 排行榜 ZSET 保留的最大条数
}

// IDCodecConfig 公开 ID 编码配置
type IDCodecConfig struct {
	Alphabet  string `mapstructure:"alphabet"`
	MinLength uint8  `mapstructure:"min_length"`
}

type CronConfig struct {
	ReconcileSpec string `mapstructure:"reconcile_spec"`
}

// LogConfig 日志配置，Logstash 不可达时只输出到 stdout
type LogConfig struct {
	Level           string `mapstructure:"level"`
	LogstashAddress string `mapstructure:"logstash_address"`
	LogstashIndex   string `mapstructure:"logstash_index"`
	LogstashToken   string `mapstructure:"logstash_token"`
}
