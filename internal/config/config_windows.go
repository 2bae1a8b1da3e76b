//go:build windows

package config

import "os"

func defaultStateDir() string {
	if temp := os.Getenv("TEMP"); temp != "" {
		return temp
	}
	return `C:\Temp`
}
