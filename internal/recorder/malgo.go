package recorder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// Capture defaults.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 1
)

// MalgoConfig selects the capture device and format.
type MalgoConfig struct {
	// DeviceName matches a device name case-insensitively; empty or
	// "default" picks the system default.
	DeviceName string
	SampleRate int
	Channels   int
}

// MalgoDevice captures S16LE PCM through miniaudio.
type MalgoDevice struct {
	cfg MalgoConfig
}

// NewMalgoDevice creates a device; nothing is opened until Open.
func NewMalgoDevice(cfg MalgoConfig) *MalgoDevice {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = DefaultChannels
	}
	return &MalgoDevice{cfg: cfg}
}

// Open initializes a miniaudio context and resolves the configured device.
func (d *MalgoDevice) Open() (Capture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, &domain.DeviceUnavailableError{Device: d.cfg.DeviceName, Err: err}
	}

	info, err := findDevice(ctx, d.cfg.DeviceName)
	if err != nil {
		freeContext(ctx)
		return nil, &domain.DeviceUnavailableError{Device: d.cfg.DeviceName, Err: err}
	}

	return &malgoCapture{
		ctx:  ctx,
		info: info,
		name: d.cfg.DeviceName,
		format: Format{
			SampleRate: d.cfg.SampleRate,
			Channels:   d.cfg.Channels,
			BitDepth:   16,
		},
	}, nil
}

type malgoCapture struct {
	ctx  *malgo.AllocatedContext
	info *malgo.DeviceInfo
	name string

	mu     sync.Mutex
	device *malgo.Device
	format Format
}

func (c *malgoCapture) Start(onChunk func([]byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = uint32(c.format.Channels)
	cfg.SampleRate = uint32(c.format.SampleRate)
	cfg.Alsa.NoMMap = 1
	if c.info != nil {
		cfg.Capture.DeviceID = c.info.ID.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onChunk(input)
		},
		Stop: func() {
			log.Debug(log.CatRecord, "Capture device stopped")
		},
	}

	device, err := malgo.InitDevice(c.ctx.Context, cfg, callbacks)
	if err != nil {
		return &domain.DeviceUnavailableError{Device: c.name, Err: err}
	}
	// The backend may not honor the requested rate.
	c.format.SampleRate = int(device.SampleRate())

	if err := device.Start(); err != nil {
		device.Uninit()
		return &domain.DeviceUnavailableError{Device: c.name, Err: err}
	}
	c.device = device
	return nil
}

func (c *malgoCapture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.device != nil {
		err = c.device.Stop()
		c.device.Uninit()
		c.device = nil
	}
	if c.ctx != nil {
		freeContext(c.ctx)
		c.ctx = nil
	}
	return err
}

func (c *malgoCapture) Format() Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// DeviceInfo describes a capture device.
type DeviceInfo struct {
	Index   int
	Name    string
	Default bool
}

// EnumerateDevices lists the capture devices miniaudio can see.
func EnumerateDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, &domain.DeviceUnavailableError{Err: err}
	}
	defer freeContext(ctx)

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerating capture devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i := range infos {
		// miniaudio's null backend device.
		if strings.Contains(infos[i].Name(), "Discard all samples") {
			continue
		}
		devices = append(devices, DeviceInfo{
			Index:   i,
			Name:    infos[i].Name(),
			Default: infos[i].IsDefault == 1,
		})
	}
	return devices, nil
}

// findDevice returns the named device, or nil to let miniaudio pick the default.
func findDevice(ctx *malgo.AllocatedContext, name string) (*malgo.DeviceInfo, error) {
	if name == "" || strings.EqualFold(name, "default") {
		return nil, nil
	}

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerating capture devices: %w", err)
	}
	if i := matchDevice(deviceNames(infos), name); i >= 0 {
		return &infos[i], nil
	}
	return nil, fmt.Errorf("no capture device matching %q", name)
}

func deviceNames(infos []malgo.DeviceInfo) []string {
	names := make([]string, len(infos))
	for i := range infos {
		names[i] = infos[i].Name()
	}
	return names
}

// matchDevice prefers an exact case-insensitive match, then a substring.
func matchDevice(names []string, want string) int {
	for i, n := range names {
		if strings.EqualFold(n, want) {
			return i
		}
	}
	lower := strings.ToLower(want)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			return i
		}
	}
	return -1
}

func freeContext(ctx *malgo.AllocatedContext) {
	_ = ctx.Uninit()
	ctx.Free()
}
