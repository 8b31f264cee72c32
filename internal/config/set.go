package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupOption returns the schema entry for a dotted key.
func LookupOption(key string) (ConfigOption, bool) {
	for _, o := range GetConfigOptions() {
		if o.Key == key {
			return o, true
		}
	}
	return ConfigOption{}, false
}

// ParseValue converts raw text to the type of the option's default.
func ParseValue(o ConfigOption, raw string) (any, error) {
	switch o.Default.(type) {
	case int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer", o.Key)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false", o.Key)
		}
		return b, nil
	default:
		return raw, nil
	}
}
