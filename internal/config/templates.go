package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes the default daemon config to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(daemonTemplate), 0o600)
}

// Template returns the default daemon config document.
func Template() string {
	return daemonTemplate
}

const daemonTemplate = `name = "callwired"
providers = ["arith", "kv", "text"]

[tcp]
addr = "127.0.0.1:7070"
max_payload_bytes = 8388608
idle_timeout = "30s"

[http]
addr = "127.0.0.1:7080"
cors_origins = ["http://localhost:3000"]

[nats]
# leave url empty to disable the NATS responder
url = ""
subject = "callwire.invoke"
queue_group = "callwired"
`
