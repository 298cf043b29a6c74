//go:build linux

package machineid

import (
	"fmt"
	"os"
	"strings"
)

// The dbus path is a fallback for systems where /etc/machine-id is absent
// (older distributions, some containers).
var idPaths = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

func platformID() (string, error) {
	for _, path := range idPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no readable machine-id file", ErrUnavailable)
}
