// Package capture owns the webcam and the acquisition loop that feeds
// sampled frames to the posture detector.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/aarnavshah12/Posturify/internal/log"
)

// ErrFrameRead is returned when the camera delivers no frame.
var ErrFrameRead = errors.New("failed to read frame from camera")

// FrameSource produces JPEG frames. Satisfied by Camera and by test
// fakes.
type FrameSource interface {
	ReadJPEG() ([]byte, error)
}

// Camera wraps a gocv video capture device. The handle is owned
// exclusively by the acquisition loop and released on Close.
type Camera struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenCamera tries each device index in order and returns the first one
// that delivers a frame. Initialization failure is fatal for the
// session: no degraded mode exists without a camera.
func OpenCamera(indices []int) (*Camera, error) {
	if len(indices) == 0 {
		indices = []int{0}
	}

	for _, idx := range indices {
		cap, err := gocv.OpenVideoCapture(idx)
		if err != nil {
			log.Warn("camera open failed", "index", idx, "error", err)
			continue
		}
		if !cap.IsOpened() {
			cap.Close()
			continue
		}

		// Verify the device actually produces frames before committing.
		mat := gocv.NewMat()
		if ok := cap.Read(&mat); !ok || mat.Empty() {
			mat.Close()
			cap.Close()
			log.Warn("camera opened but produced no frame", "index", idx)
			continue
		}

		cap.Set(gocv.VideoCaptureFrameWidth, 640)
		cap.Set(gocv.VideoCaptureFrameHeight, 480)
		cap.Set(gocv.VideoCaptureFPS, 30)
		// Keep the buffer shallow so frames are close to real time.
		cap.Set(gocv.VideoCaptureBufferSize, 1)

		log.Info("camera initialized", "index", idx)
		return &Camera{cap: cap, mat: mat}, nil
	}

	return nil, fmt.Errorf("no working camera found (tried %v)", indices)
}

// ReadJPEG grabs the next frame and returns it JPEG-encoded.
func (c *Camera) ReadJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, ErrFrameRead
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, c.mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

// Close releases the camera handle.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mat.Close()
	return c.cap.Close()
}
