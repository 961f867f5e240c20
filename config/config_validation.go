package config

import (
	"errors"
	"fmt"

	ct "github.com/launchdarkly/go-configtypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

var (
	errTLSEnabledWithoutCertOrKey = errors.New("TLS cert and key are required if TLS is enabled")
	errNoValues                   = errors.New("you must configure at least one value to relay")
	errRedisURLWithHostAndPort    = errors.New("please specify Redis URL or host/port, but not both")
	errRedisBadHostname           = errors.New("invalid Redis hostname")
)

func errValueWithoutURI(name string) error {
	return fmt.Errorf("value %q does not specify a URI to poll", name)
}

func errValueWithoutInitialSource(name string) error {
	return fmt.Errorf("value %q must specify exactly one of initial, initialFile, or initialRedisKey", name)
}

func errValueInitialNotJSON(name string) error {
	return fmt.Errorf("the initial value for %q is not valid JSON", name)
}

func errValuePollIntervalTooShort(name string) error {
	return fmt.Errorf("value %q has a poll interval below the minimum of %s", name, MinimumPollInterval)
}

func errValueRedisKeyWithoutRedis(name string) error {
	return fmt.Errorf("value %q uses a Redis snapshot key but no Redis connection is configured", name)
}

// ValidateConfig ensures that the configuration does not contain contradictory
// properties.
//
// This covers validation rules that can't be enforced on a per-field basis
// (for instance, if either field A or field B can be specified but it's
// invalid to specify both). It is allowed to modify the Config struct in order
// to canonicalize settings, such as converting Redis host/port into a Redis
// URL.
//
// LoadConfigFromEnvironment and LoadConfigFile both call this as a last step,
// but it is also called again by the relay constructor because application
// code embedding the service may construct a Config programmatically.
func ValidateConfig(c *Config, loggers ldlog.Loggers) error {
	var result ct.ValidationResult

	validateConfigTLS(&result, c)
	normalizeRedisConfig(&result, c)
	validateConfigValues(&result, c)

	return result.GetError()
}

func validateConfigTLS(result *ct.ValidationResult, c *Config) {
	if c.Main.TLSEnabled && (c.Main.TLSCert == "" || c.Main.TLSKey == "") {
		result.AddError(nil, errTLSEnabledWithoutCertOrKey)
	}
}

func validateConfigValues(result *ct.ValidationResult, c *Config) {
	if len(c.Value) == 0 {
		result.AddError(nil, errNoValues)
		return
	}

	for name, vc := range c.Value {
		if !vc.URI.IsDefined() {
			result.AddError(nil, errValueWithoutURI(name))
		}

		sources := 0
		if vc.Initial != "" {
			sources++
			if parsed := ldvalue.Parse([]byte(vc.Initial)); parsed.IsNull() && vc.Initial != "null" {
				result.AddError(nil, errValueInitialNotJSON(name))
			}
		}
		if vc.InitialFile != "" {
			sources++
		}
		if vc.InitialRedisKey != "" {
			sources++
			if !c.Redis.Enabled() {
				result.AddError(nil, errValueRedisKeyWithoutRedis(name))
			}
		}
		if sources != 1 {
			result.AddError(nil, errValueWithoutInitialSource(name))
		}

		if vc.WriteThrough && vc.InitialRedisKey == "" {
			result.AddError(nil, errValueRedisKeyWithoutRedis(name))
		}

		if vc.PollInterval.IsDefined() && vc.PollInterval.GetOrElse(0) < MinimumPollInterval {
			result.AddError(nil, errValuePollIntervalTooShort(name))
		}
	}
}

func normalizeRedisConfig(result *ct.ValidationResult, c *Config) {
	if c.Redis.URL.IsDefined() {
		if c.Redis.Host != "" || c.Redis.Port.IsDefined() {
			result.AddError(nil, errRedisURLWithHostAndPort)
		}
	} else if c.Redis.Host != "" || c.Redis.Port.IsDefined() {
		host := c.Redis.Host
		if host == "" {
			host = defaultRedisHost
		}
		port := c.Redis.Port.GetOrElse(defaultRedisPort)
		url, err := ct.NewOptURLAbsoluteFromString(fmt.Sprintf("redis://%s:%d", host, port))
		if err != nil {
			result.AddError(nil, errRedisBadHostname)
		}
		c.Redis.URL = url
		c.Redis.Host = ""
		c.Redis.Port = ct.OptIntGreaterThanZero{}
	}
}
