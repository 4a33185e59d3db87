package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Chat   ChatConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// ChatConfig 即時聊天相關設定
type ChatConfig struct {
	SendBuffer     int   // 每個連線的發送緩衝區大小
	MaxMessageSize int64 // 單則訊息的大小上限（bytes）
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// 預設值，配置文件可覆蓋
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("chat.sendbuffer", 256)
	viper.SetDefault("chat.maxmessagesize", 4096)

	// 允許用環境變量覆蓋配置
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// 找不到配置文件時退回預設值，其他錯誤照常回報
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
