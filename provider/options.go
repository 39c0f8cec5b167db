package provider

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes a backend's options map into out. Durations accept
// strings like "30s"; unknown keys are rejected so typos surface at startup.
func DecodeOptions(cfg map[string]any, out any) error {
	if len(cfg) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}
