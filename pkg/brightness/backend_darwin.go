//go:build darwin

package brightness

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// darwinBackend drives the `brightness` CLI (brew install brightness).
type darwinBackend struct{}

func newBackend() backend {
	return &darwinBackend{}
}

func (b *darwinBackend) set(percent int) error {
	level := fmt.Sprintf("%.2f", float64(percent)/100)
	out, err := exec.Command("brightness", level).CombinedOutput()
	if err != nil {
		return fmt.Errorf("brightness %s: %w (%s)", level, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (b *darwinBackend) get() (int, error) {
	out, err := exec.Command("brightness", "-l").Output()
	if err != nil {
		return 0, fmt.Errorf("brightness -l: %w", err)
	}
	// Output contains a line like "display 0: brightness 0.812500"
	for _, line := range strings.Split(string(out), "\n") {
		if i := strings.LastIndex(line, "brightness "); i >= 0 {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[i+len("brightness "):]), 64)
			if err != nil {
				continue
			}
			return int(v * 100), nil
		}
	}
	return 0, fmt.Errorf("no brightness value in output")
}
