//go:build linux

package brightness

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// linuxBackend drives brightnessctl, which handles both backlight class
// devices and external DDC monitors.
type linuxBackend struct{}

func newBackend() backend {
	return &linuxBackend{}
}

func (b *linuxBackend) set(percent int) error {
	out, err := exec.Command("brightnessctl", "set", fmt.Sprintf("%d%%", percent)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("brightnessctl set: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (b *linuxBackend) get() (int, error) {
	cur, err := brightnessctlValue("get")
	if err != nil {
		return 0, err
	}
	max, err := brightnessctlValue("max")
	if err != nil {
		return 0, err
	}
	if max == 0 {
		return 0, fmt.Errorf("brightnessctl reported max brightness 0")
	}
	return cur * 100 / max, nil
}

func brightnessctlValue(cmd string) (int, error) {
	out, err := exec.Command("brightnessctl", cmd).Output()
	if err != nil {
		return 0, fmt.Errorf("brightnessctl %s: %w", cmd, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("brightnessctl %s output %q: %w", cmd, out, err)
	}
	return v, nil
}
