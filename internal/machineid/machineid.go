// Package machineid reads a platform-stable identifier for the current
// machine: /etc/machine-id on Linux, the IOPlatformUUID on macOS, the
// MachineGuid registry value on Windows.
//
// The identifier survives reboots and application reinstalls but not an OS
// reinstall, so anything derived from it is tied to this installation.
package machineid

import "errors"

// ErrUnavailable is returned when no machine identifier can be read.
var ErrUnavailable = errors.New("machine identifier unavailable")

// ID returns the machine identifier with surrounding whitespace trimmed.
func ID() (string, error) {
	return platformID()
}
