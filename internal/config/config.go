package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local" env-description:"Environment" env-choices:"local,dev,prod"`
	Bot      Bot    `yaml:"bot"`
	Api      Api    `yaml:"api"`
	Postgres `yaml:"postgres"`
}

type Bot struct {
	Token          string   `yaml:"token" env:"BOT_TOKEN"`
	AdminsChatID   int64    `yaml:"admins_chat_id" env:"ADMINS_CHAT_ID"`
	Admins         []int64  `yaml:"admins" env:"ADMINS"`
	Channels       []string `yaml:"channels" env:"CHANNELS"`
	ReferralReward int64    `yaml:"referral_reward" env-default:"1"`
	WithdrawsLimit int      `yaml:"withdraws_limit" env-default:"20"`
	QrEnabled      bool     `yaml:"qr_enabled" env-default:"false"`
	Gifts          []Gift   `yaml:"gifts"`
}

type Gift struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

type Api struct {
	Host          string `yaml:"host" env-default:"localhost"`
	Port          int    `yaml:"port" env-default:"8080"`
	AdminUser     string `yaml:"admin_user" env:"API_ADMIN_USER"`
	AdminPassHash string `yaml:"admin_pass_hash" env:"API_ADMIN_PASS_HASH"`
	JwtSecret     string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type Postgres struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"5432"`
	User string `yaml:"user" env-default:"bot"`
	Pass string `yaml:"pass" env-default:"12345"`
	Db   string `yaml:"db" env-default:"bot_db"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exist: " + path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic("Failed to read config" + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
