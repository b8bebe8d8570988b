package services

import (
	"context"
	"sync"
	"time"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaptureStream is an acquired camera stream handle.
type CaptureStream struct {
	ID     uuid.UUID
	Facing string
}

// CaptureDevice abstracts the camera. Acquire fails with a permission error
// when the device refuses; every acquired stream must be released, including
// on cancellation.
type CaptureDevice interface {
	Acquire(facing string) (*CaptureStream, error)
	Release(stream *CaptureStream)
}

// SimulatedCapture is the demo capture device. Deny simulates the user
// refusing camera permission.
type SimulatedCapture struct {
	Deny bool

	mu   sync.Mutex
	open map[uuid.UUID]*CaptureStream
}

func (s *SimulatedCapture) Acquire(facing string) (*CaptureStream, error) {
	if s.Deny {
		return nil, &utils.PermissionDeniedError{Msg: "camera permission denied"}
	}

	stream := &CaptureStream{ID: uuid.New(), Facing: facing}
	s.mu.Lock()
	if s.open == nil {
		s.open = make(map[uuid.UUID]*CaptureStream)
	}
	s.open[stream.ID] = stream
	s.mu.Unlock()
	return stream, nil
}

func (s *SimulatedCapture) Release(stream *CaptureStream) {
	if stream == nil {
		return
	}
	s.mu.Lock()
	delete(s.open, stream.ID)
	s.mu.Unlock()
}

// OpenStreams reports how many streams are currently held.
func (s *SimulatedCapture) OpenStreams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Scanner runs the mocked QR-scan flow: acquire the camera, wait a fixed
// simulated-latency delay, then resolve to a random live vendor. The delay is
// injectable so tests run with zero latency; cancellation releases the
// acquired stream.
type Scanner struct {
	DB     *gorm.DB
	Device CaptureDevice
	Delay  time.Duration
}

func (s *Scanner) Scan(ctx context.Context) (*models.Vendor, error) {
	stream, err := s.Device.Acquire("environment")
	if err != nil {
		return nil, err
	}
	defer s.Device.Release(stream)

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	var vendor models.Vendor
	if err := s.DB.Order("random()").First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}
