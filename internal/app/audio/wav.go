package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	wavHeaderSize       = 44
)

// ErrNotWAV is returned by DecodeWAV when the data has no RIFF/WAVE header.
var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// wavHeader is the canonical 44-byte PCM WAV header.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// EncodeWAV wraps the buffer's PCM data in a WAV container.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b.Format.Channels <= 0 || b.Format.SampleRate <= 0 || b.Format.SampleWidth <= 0 {
		return nil, fmt.Errorf("invalid audio format %s", b.Format)
	}

	dataSize := uint32(len(b.Data))
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   wavFormatPCM,
		NumChannels:   uint16(b.Format.Channels),
		SampleRate:    uint32(b.Format.SampleRate),
		ByteRate:      uint32(b.Format.SampleRate * b.Format.FrameSize()),
		BlockAlign:    uint16(b.Format.FrameSize()),
		BitsPerSample: uint16(b.Format.SampleWidth * 8),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(b.Data)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	buf.Write(b.Data)

	return buf.Bytes(), nil
}

// DecodeWAV parses an integer PCM WAV stream into a Buffer, walking the RIFF
// chunk list so files carrying LIST or fact chunks are accepted. The returned
// buffer aliases data.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		format    Format
		haveFmt   bool
		pcm       []byte
		haveData  bool
		offset    = 12
		byteOrder = binary.LittleEndian
	)

	for offset+8 <= len(data) && !haveData {
		id := string(data[offset : offset+4])
		size := int(byteOrder.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		end := body + size
		// Streaming encoders leave the size unset; clamp to what was received.
		if size < 0 || end > len(data) {
			end = len(data)
		}

		switch id {
		case "fmt ":
			if end-body < 16 {
				return nil, fmt.Errorf("invalid WAV file: fmt chunk too short (%d bytes)", end-body)
			}
			tag := byteOrder.Uint16(data[body : body+2])
			if tag == wavFormatExtensible && end-body >= 26 {
				tag = byteOrder.Uint16(data[body+24 : body+26])
			}
			if tag != wavFormatPCM {
				return nil, fmt.Errorf("unsupported WAV encoding: format tag %d", tag)
			}
			format = Format{
				Channels:    int(byteOrder.Uint16(data[body+2 : body+4])),
				SampleRate:  int(byteOrder.Uint32(data[body+4 : body+8])),
				SampleWidth: int(byteOrder.Uint16(data[body+14:body+16])) / 8,
			}
			haveFmt = true
		case "data":
			pcm = data[body:end]
			haveData = true
		}

		// Chunks are word aligned.
		offset = end + size%2
	}

	if !haveFmt {
		return nil, fmt.Errorf("invalid WAV file: missing fmt chunk")
	}
	if !haveData {
		return nil, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	// Drop a trailing partial frame left by a truncated upload.
	if fs := format.FrameSize(); fs > 0 {
		pcm = pcm[:len(pcm)-len(pcm)%fs]
	}
	return NewBuffer(format, pcm)
}
