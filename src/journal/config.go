package journal

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SessionTagging labels new trades with the NY market session they open in.
	SessionTagging bool `envconfig:"JOURNAL_SESSION_TAGGING" default:"true"`
	// ExpireBatchSize is how many due order IDs ExpireDueOrders reads per page.
	ExpireBatchSize int `envconfig:"JOURNAL_EXPIRE_BATCH_SIZE" default:"500"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
