package output

import (
	"fmt"
	"image"
	"log"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/lightwaveos/lightwave-go/internal/render"
)

// SPIConfig holds SPI LED sink configuration.
type SPIConfig struct {
	// Device is the SPI port name, e.g. "/dev/spidev0.0". Empty selects the
	// first available port.
	Device string
	// Freq is the NRZ symbol rate. Zero selects 800kHz (WS2812-class strips).
	Freq physic.Frequency
}

// SPISink drives the physical strips through an NRZ LED device on a SPI bus.
// Both strips are wired as one 320-pixel chain.
type SPISink struct {
	mu   sync.Mutex
	port spi.PortCloser
	dev  *nrzled.Dev
	img  *image.NRGBA // reused frame image, avoids per-frame allocation
}

// NewSPISink initializes the host, opens the SPI port, and configures the
// LED device for the full fixture.
func NewSPISink(cfg SPIConfig) (*SPISink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Device, err)
	}

	freq := cfg.Freq
	if freq == 0 {
		freq = 800 * physic.KiloHertz
	}

	opts := nrzled.Opts{
		NumPixels: render.TotalPixels,
		Channels:  3,
		Freq:      freq,
	}
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure LED device: %w", err)
	}
	_ = dev.Halt()

	log.Printf("💡 SPI LED output enabled on %q (%d pixels @ %s)", cfg.Device, render.TotalPixels, freq)

	return &SPISink{
		port: port,
		dev:  dev,
		img:  image.NewNRGBA(image.Rect(0, 0, render.TotalPixels, 1)),
	}, nil
}

// Show pushes one frame down the chain.
func (s *SPISink) Show(frame render.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}

	for i, px := range frame {
		off := i * 4
		s.img.Pix[off] = px.R
		s.img.Pix[off+1] = px.G
		s.img.Pix[off+2] = px.B
		s.img.Pix[off+3] = 0xFF
	}
	return s.dev.Draw(s.dev.Bounds(), s.img, image.Point{})
}

// Close blanks the strip and releases the SPI port.
func (s *SPISink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}
	_ = s.dev.Halt()
	s.dev = nil

	err := s.port.Close()
	s.port = nil
	log.Printf("💡 SPI LED output closed")
	return err
}
