package output

import (
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/pkg/artnet"
)

// ArtNetConfig holds Art-Net sink configuration.
type ArtNetConfig struct {
	BroadcastAddr string
	Port          int
	StartUniverse int
}

// DefaultArtNetConfig returns a configuration with default values.
func DefaultArtNetConfig() ArtNetConfig {
	return ArtNetConfig{
		BroadcastAddr: "255.255.255.255",
		Port:          artnet.DefaultPort,
		StartUniverse: 1,
	}
}

// ArtNetSink streams frames as Art-Net DMX packets over UDP. A 320-pixel
// frame occupies two universes using the 170-pixels-per-universe layout.
type ArtNetSink struct {
	mu            sync.Mutex
	conn          *net.UDPConn
	startUniverse int
	sequence      byte
	scratch       []byte // reused RGB channel buffer, avoids per-frame allocation
}

// NewArtNetSink opens a UDP socket for Art-Net broadcast.
func NewArtNetSink(cfg ArtNetConfig) (*ArtNetSink, error) {
	if cfg.Port <= 0 {
		cfg.Port = artnet.DefaultPort
	}
	if cfg.StartUniverse <= 0 {
		cfg.StartUniverse = 1
	}
	if cfg.BroadcastAddr == "" {
		cfg.BroadcastAddr = "255.255.255.255"
	}

	addr, err := net.ResolveUDPAddr("udp4", cfg.BroadcastAddr+":"+strconv.Itoa(cfg.Port))
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, err
	}

	log.Printf("📡 Art-Net output enabled, broadcasting to %s:%d (universes %d+)",
		cfg.BroadcastAddr, cfg.Port, cfg.StartUniverse)

	return &ArtNetSink{
		conn:          conn,
		startUniverse: cfg.StartUniverse,
		scratch:       make([]byte, render.TotalPixels*3),
	}, nil
}

// Show transmits one frame as consecutive universe packets.
func (s *ArtNetSink) Show(frame render.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	data := s.scratch[:0]
	for _, px := range frame {
		data = append(data, px.R, px.G, px.B)
	}

	var firstErr error
	for i, chunk := range artnet.SplitPixelData(data) {
		s.sequence++
		packet := artnet.BuildDMXPacket(s.startUniverse+i, chunk, s.sequence)
		if _, err := s.conn.Write(packet); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close sends a final blackout frame and closes the socket.
func (s *ArtNetSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	blackout := make([]byte, render.TotalPixels*3)
	for i, chunk := range artnet.SplitPixelData(blackout) {
		s.sequence++
		packet := artnet.BuildDMXPacket(s.startUniverse+i, chunk, s.sequence)
		_, _ = s.conn.Write(packet)
	}

	err := s.conn.Close()
	s.conn = nil
	log.Printf("🔌 Art-Net output closed")
	return err
}
