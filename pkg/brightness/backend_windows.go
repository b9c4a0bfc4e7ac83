//go:build windows

package brightness

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// windowsBackend drives WMI brightness methods through PowerShell.
type windowsBackend struct{}

func newBackend() backend {
	return &windowsBackend{}
}

func (b *windowsBackend) set(percent int) error {
	script := fmt.Sprintf(
		"(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(0,%d)",
		percent)
	out, err := exec.Command("powershell", "-NoProfile", "-Command", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("wmi set brightness: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (b *windowsBackend) get() (int, error) {
	script := "(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightness).CurrentBrightness"
	out, err := exec.Command("powershell", "-NoProfile", "-Command", script).Output()
	if err != nil {
		return 0, fmt.Errorf("wmi get brightness: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("wmi brightness output %q: %w", out, err)
	}
	return v, nil
}
