//go:build windows

package machineid

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

func platformID() (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Cryptography`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", fmt.Errorf("%w: opening registry key: %v", ErrUnavailable, err)
	}
	defer k.Close()

	id, _, err := k.GetStringValue("MachineGuid")
	if err != nil {
		return "", fmt.Errorf("%w: reading MachineGuid: %v", ErrUnavailable, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty MachineGuid", ErrUnavailable)
	}
	return id, nil
}
