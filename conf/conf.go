package conf

import (
	"os"
	"time"

	"github.com/jinzhu/configor"
	"github.com/rs/zerolog/log"
)

const defaultPath = "./conf/conf.json"

type Bot struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`

	RESTHost string `json:"rest_host" default:"https://api.bitfinex.com"`
	WSHost   string `json:"ws_host"   default:"api.bitfinex.com"`
	WSPath   string `json:"ws_path"   default:"/ws/2"`
	Scheme   string `json:"scheme"    default:"wss"`

	OrderType string `json:"order_type" default:"EXCHANGE LIMIT"`

	// Seconds to wait for the exchange to acknowledge an order.
	Timeout int64 `json:"timeout" default:"10"`

	Debug bool `json:"debug"`
}

func (b *Bot) RequestTimeout() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

func (b *Bot) HasCredentials() bool {
	return b.APIKey != "" && b.APISecret != ""
}

// Load reads the config at path. Keys unknown to Bot are an error.
func Load(path string) (*Bot, error) {
	c := &Bot{}

	if err := configor.New(&configor.Config{ErrorOnUnmatchedKeys: true}).Load(c, path); err != nil {
		return nil, err
	}

	return c, nil
}

// New loads the config from CFG_PATH and exits on failure.
func New() *Bot {
	path := os.Getenv("CFG_PATH")

	if path == "" {
		path = defaultPath
	}

	c, err := Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("conf validation errors")
	}

	return c
}
