package config

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

var ErrInvalidContractAddress = errors.New("CONTRACT_ADDRESS is not a valid address")

type Config struct {
	NodeRPCURL       string        `env:"NODE_RPC_URL,default=http://localhost:8545"`
	WalletRPCURL     string        `env:"WALLET_RPC_URL"`
	WalletPrivateKey string        `env:"WALLET_PRIVATE_KEY"`
	ContractAddress  string        `env:"CONTRACT_ADDRESS,required"`
	GiphyAPIKey      string        `env:"GIPHY_API_KEY"`
	GiphyBaseURL     string        `env:"GIPHY_BASE_URL,default=https://api.giphy.com"`
	DataPath         string        `env:"DATA_PATH"`
	ConfirmTimeout   time.Duration `env:"CONFIRM_TIMEOUT,default=5m"`
	TransferGasLimit uint64        `env:"TRANSFER_GAS_LIMIT,default=21000"`
	SentryURL        string        `env:"SENTRY_URL"`
	DiscordURL       string        `env:"DISCORD_URL"`
	APIKey           string        `env:"API_KEY"`
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	err := envconfig.ProcessWith(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, ErrInvalidContractAddress
	}

	return cfg, nil
}

// Contract returns the parsed contract address
func (c *Config) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}
