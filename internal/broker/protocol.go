package broker

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize bounds an incoming headless-socket frame.
const MaxFrameSize = 1 << 20

// writeFrame writes v as one `u32 LE length || JSON body` frame (§6.5).
// Unlike the teacher's internal/ipc framing, this carries no HMAC or
// sequence number: the headless selector protocol has no auth
// requirement (it is a local, single-user TTY helper).
func writeFrame(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("broker: marshal frame: %w", err)
	}
	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(data)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("broker: write frame header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("broker: write frame body: %w", err)
	}
	return nil
}

// readFrame reads one `u32 LE length || JSON body` frame into v.
func readFrame(r io.Reader, v any) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("broker: read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(header)
	if n > MaxFrameSize {
		return fmt.Errorf("broker: frame too large: %d bytes", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("broker: read frame body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("broker: unmarshal frame: %w", err)
	}
	return nil
}
