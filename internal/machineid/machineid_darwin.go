//go:build darwin

package machineid

import (
	"fmt"
	"os/exec"
	"strings"
)

func platformID() (string, error) {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return "", fmt.Errorf("%w: ioreg: %v", ErrUnavailable, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if id := strings.Trim(strings.TrimSpace(value), `"`); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: IOPlatformUUID not in ioreg output", ErrUnavailable)
}
