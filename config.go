package kitchenagent

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,default=llama-3.1-8b-instant"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.1"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type GroqConfig struct {
	APIKey       string `env:"GROQ_API_KEY,required"`
	BaseEndpoint string `env:"GROQ_BASE_ENDPOINT,default=https://api.groq.com"`
}

type AgentConfig struct {
	ImageSearchEndpoint string  `env:"IMAGE_SEARCH_ENDPOINT,default=https://duckduckgo.com"`
	ImageCacheSize      int     `env:"IMAGE_CACHE_SIZE,default=256"`
	ImageSearchQPS      float64 `env:"IMAGE_SEARCH_QPS,default=1"`
	TurnLogMode         string  `env:"TURN_LOG_MODE,default=stdout"`
}

type ServerConfig struct {
	Addr      string `env:"SERVER_ADDR,default=:8080"`
	GinMode   string `env:"GIN_MODE,default=release"`
	StaticDir string `env:"STATIC_DIR,default=static"`
	DebugDump bool   `env:"DEBUG_DUMP,default=false"`
}
