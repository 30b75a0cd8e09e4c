package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Player plays WAV audio through the system output via oto.
type Player struct {
	ctx *oto.Context
	log *logger.Logger
}

// NewPlayer initializes the system audio context. The error wraps
// domain.ErrSpeechUnavailable when the audio device cannot be opened.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: opening audio device: %w", domain.ErrSpeechUnavailable, err)
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play plays WAV audio synchronously. The WAV format must match the
// context the player was opened with.
func (p *Player) Play(wavData []byte) error {
	format, pcm, err := decodeWAV(wavData)
	if err != nil {
		return err
	}
	if format.SampleRate != SampleRate || format.Channels != ChannelCount || format.BitsPerSample != BitDepth {
		return fmt.Errorf("unsupported wav format %+v", format)
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Err()
}

// wavFormat is the subset of the WAV "fmt " chunk the player checks.
type wavFormat struct {
	AudioFormat   uint16 // 1 = PCM
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// decodeWAV walks the RIFF chunks and returns the format and raw PCM data.
func decodeWAV(wav []byte) (wavFormat, []byte, error) {
	var f wavFormat
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return f, nil, errors.New("not a valid WAV file")
	}

	haveFormat := false
	pos := 12
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		body := pos + 8
		end := body + size
		if end > len(wav) {
			end = len(wav)
		}

		switch id {
		case "fmt ":
			if end-body < 16 {
				return f, nil, errors.New("wav fmt chunk too short")
			}
			b := wav[body:end]
			f.AudioFormat = binary.LittleEndian.Uint16(b[0:2])
			f.Channels = int(binary.LittleEndian.Uint16(b[2:4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(b[4:8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(b[14:16]))
			if f.AudioFormat != 1 {
				return f, nil, fmt.Errorf("wav audio format %d is not PCM", f.AudioFormat)
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return f, nil, errors.New("wav data chunk before fmt chunk")
			}
			return f, wav[body:end], nil
		}

		pos = body + size
		// Chunks are word-aligned.
		if size%2 != 0 {
			pos++
		}
	}
	return f, nil, errors.New("data chunk not found in WAV")
}
