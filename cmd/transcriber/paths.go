package main

import (
	"os"
	"path/filepath"
)

// transcriberHome returns the path to the transcriber home directory
// (~/.transcriber).
func transcriberHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".transcriber"), nil
}

func defaultSocketPath() string {
	home, err := transcriberHome()
	if err != nil {
		return "/tmp/transcriber.sock"
	}
	return filepath.Join(home, "transcriber.sock")
}

func auditLogPath() (string, error) {
	home, err := transcriberHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "audit.log"), nil
}
