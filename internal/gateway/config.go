package gateway

import "time"

// Config - параметры клиента платформы.
type Config struct {
	WorkerID     string
	AuthToken    string
	Timeout      time.Duration
	MaxRetries   int
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// withDefaults - параметры по умолчанию (если не заданы в конфиге).
func (c *Config) withDefaults() *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.Timeout <= 0 {
		out.Timeout = 5 * time.Second
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.RetryInitial <= 0 {
		out.RetryInitial = 100 * time.Millisecond
	}
	if out.RetryMax <= 0 {
		out.RetryMax = 2 * time.Second
	}
	if out.RetryMax < out.RetryInitial {
		out.RetryMax = out.RetryInitial
	}
	return &out
}
