package web

import (
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/magicka/internal/config"
)

// marshalBalanceYAML renders b in the balance file format, so the
// response can be saved and passed back with --balance.
func marshalBalanceYAML(b config.Balance) ([]byte, error) {
	return yaml.Marshal(b)
}
