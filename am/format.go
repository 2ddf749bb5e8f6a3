package am

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/paddock/errors"
)

// Formats accepted by Render.
var Formats = []string{"toml", "json", "yaml"}

// Render serialises nested settings (as returned by viper's AllSettings) in
// the given format.
func Render(settings map[string]interface{}, format string) ([]byte, error) {
	switch format {
	case "toml", "":
		data, err := toml.Marshal(settings)
		return data, errors.Wrap(err, "marshal toml")
	case "json":
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshal json")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(settings)
		return data, errors.Wrap(err, "marshal yaml")
	default:
		return nil, errors.Newf("unknown format %q (want one of %v)", format, Formats)
	}
}
