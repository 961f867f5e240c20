package config

import (
	ct "github.com/launchdarkly/go-configtypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoadConfigFromEnvironment sets parameters in a Config struct from environment
// variables.
//
// The Config parameter should be initialized with default values first.
//
// Each relayed value is declared with VALUE_<name>=<uri>; its other parameters
// use the field variable names from ValueConfig suffixed with _<name>, for
// example POLL_INTERVAL_<name> and INITIAL_<name>.
func LoadConfigFromEnvironment(c *Config, loggers ldlog.Loggers) error {
	reader := ct.NewVarReaderFromEnvironment()

	reader.ReadStruct(&c.Main, false)
	reader.ReadStruct(&c.Proxy, false)

	for valueName, uri := range reader.FindPrefixedValues("VALUE_") {
		var vc ValueConfig
		if c.Value[valueName] != nil {
			vc = *c.Value[valueName]
		}
		if err := vc.URI.UnmarshalText([]byte(uri)); err != nil {
			reader.AddError(ct.ValidationPath{"VALUE_" + valueName}, err)
			continue
		}
		subReader := reader.WithVarNameSuffix("_" + valueName)
		subReader.ReadStruct(&vc, false)
		if c.Value == nil {
			c.Value = make(map[string]*ValueConfig)
		}
		c.Value[valueName] = &vc
	}

	useRedis := false
	reader.Read("USE_REDIS", &useRedis)
	if useRedis || c.Redis.Host != "" || c.Redis.URL.IsDefined() {
		reader.ReadStruct(&c.Redis, false)
		if !c.Redis.URL.IsDefined() && c.Redis.Host == "" && !c.Redis.Port.IsDefined() {
			// all they specified was USE_REDIS
			c.Redis.Host = defaultRedisHost
		}
	}

	if !reader.Result().OK() {
		return reader.Result().GetError()
	}

	return ValidateConfig(c, loggers)
}
