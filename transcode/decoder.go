package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/sonavero/voicecheck/detect"
	"github.com/sonavero/voicecheck/logging"
)

// Decoder is the decoded-audio provider in front of the detection engine:
// it turns an encoded MP3 payload into the mono 22 050 Hz buffer the engine
// contracts for, enforcing the format, size, and duration limits before any
// analysis runs.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath      string        `json:"ffmpeg_path"`       // Path to ffmpeg binary
	Timeout         time.Duration `json:"timeout"`           // Timeout for ffmpeg operations
	MaxEncodedBytes int           `json:"max_encoded_bytes"` // Cap on the encoded payload
	MaxDuration     time.Duration `json:"max_duration"`      // Cap on decoded duration, 0 = none
}

// DefaultDecoderConfig returns the limits the API contract specifies:
// 10 MB encoded payloads, 30 s of decoding time
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:      "ffmpeg", // Assume in PATH
		Timeout:         30 * time.Second,
		MaxEncodedBytes: 10 << 20,
	}
}

// NewDecoder creates a decoder; a nil config selects the defaults
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}

	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeBytes decodes an MP3 payload into an analysis-ready AudioBuffer.
// Rejections (wrong format, oversized payload, too-short clip) happen here,
// before the engine sees any samples.
func (d *Decoder) DecodeBytes(ctx context.Context, data []byte) (*detect.AudioBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}

	if d.config.MaxEncodedBytes > 0 && len(data) > d.config.MaxEncodedBytes {
		return nil, fmt.Errorf("audio payload is %d bytes, limit is %d", len(data), d.config.MaxEncodedBytes)
	}

	if !IsMP3(data) {
		return nil, fmt.Errorf("audio payload is not MP3")
	}

	samples, err := d.decodeWithFFmpeg(ctx, data)
	if err != nil {
		return nil, err
	}

	buf, err := detect.NewAudioBuffer(samples, detect.SampleRate)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("decoded audio payload", logging.Fields{
		"encoded_bytes": len(data),
		"duration":      buf.Duration(),
	})

	return buf, nil
}

// IsMP3 sniffs the payload for an MP3 container: either an ID3v2 tag or an
// MPEG audio frame sync at the start
func IsMP3(data []byte) bool {
	if len(data) < 3 {
		return false
	}

	// ID3v2 tag
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}

	// MPEG frame sync: 11 set bits
	return data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func (d *Decoder) decodeWithFFmpeg(ctx context.Context, data []byte) ([]float64, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, d.buildFFmpegArgs()...)
	cmd.Stdin = bytes.NewReader(data)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			d.logger.Error(err, "ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no samples")
	}

	return samples, nil
}

func (d *Decoder) buildFFmpegArgs() []string {
	args := []string{
		"-i", "pipe:0",
		"-f", "f64le", // Raw float64 little-endian
		"-ac", "1", // Mono
		"-ar", strconv.Itoa(detect.SampleRate),
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	args = append(args, "-v", "error", "pipe:1")

	return args
}

// bytesToFloat64 reinterprets raw f64le output as samples
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := 0; i < sampleCount; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}

// ValidateConfig checks the configuration and that ffmpeg is reachable
func (d *Decoder) ValidateConfig() error {
	if d.config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", d.config.Timeout)
	}

	if d.config.MaxEncodedBytes < 0 {
		return fmt.Errorf("max encoded bytes must not be negative: %d", d.config.MaxEncodedBytes)
	}

	cmd := exec.Command(d.config.FFmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", d.config.FFmpegPath, err)
	}

	return nil
}
