//go:build !windows

package config

import "os"

func defaultStateDir() string {
	return os.TempDir()
}
