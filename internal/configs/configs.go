package configs

type Config struct {
	// 基础配置
	Chain        string `json:"chain" yaml:"chain"`                 // 目标链，默认 solana
	ScanInterval string `json:"scan_interval" yaml:"scan_interval"` // 后台扫描周期
	ScanDelay    string `json:"scan_delay" yaml:"scan_delay"`       // 批量扫描中单个代币之间的间隔
	TopN         int    `json:"top_n" yaml:"top_n"`                 // 每轮扫描的热门代币数量

	Database Database `json:"database" yaml:"database"`
	Redis    Redis    `json:"redis" yaml:"redis"`
	Server   Server   `json:"server" yaml:"server"`

	// 信号参数
	SignalConfig SignalConfig `json:"signal_config" yaml:"signal_config"`

	// AI 模型参数
	AIConfig AIConfig `json:"ai_config" yaml:"ai_config"`
}

type SignalConfig struct {
	MinConfidence int `json:"min_confidence" yaml:"min_confidence"` // 持久化信号的最低置信度
}

type AIConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`       // AI服务API密钥，为空时读 OPENAI_API_KEY
	BaseURL   string `json:"base_url" yaml:"base_url"`     // 兼容 OpenAI 协议的服务地址
	ModelType string `json:"model_type" yaml:"model_type"` // AI模型类型
}

type Database struct {
	ConnStr string `json:"conn_str" yaml:"conn_str"` // 数据库连接字符串
}

type Redis struct {
	Addr     string `json:"addr" yaml:"addr"` // 为空时不启用缓存
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	PairTTL  string `json:"pair_ttl" yaml:"pair_ttl"` // 交易对缓存时长
}

type Server struct {
	Addr string `json:"addr" yaml:"addr"` // HTTP 监听地址
}
