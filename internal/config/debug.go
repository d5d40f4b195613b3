package config

import "os"

func IsDebug() bool {
	return os.Getenv("VERITAS_DEBUG") == "1"
}
