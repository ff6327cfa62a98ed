package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Redis struct {
		Addr            string
		Password        string
		DB              int
		SessionTTLHours int `mapstructure:"session_ttl_hours"`
	} `mapstructure:"redis"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	AI struct {
		BaseURL       string `mapstructure:"base_url"`
		Token         string
		AgentAccessID string `mapstructure:"agent_access_id"`
		SystemPrompt  string `mapstructure:"system_prompt"`
	} `mapstructure:"ai"`

	TTS struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		VoiceID string `mapstructure:"voice_id"`
	} `mapstructure:"tts"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Секреты (токены AI/TTS/Telegram) переопределяем через ENV (APP_*)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
