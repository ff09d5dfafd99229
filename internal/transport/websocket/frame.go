package websocket

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"net"
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}

const (
	opText  byte = 0x1
	opClose byte = 0x8
)

const (
	finBit  byte = 0x80
	maskBit byte = 0x80
)

// decodeFrame attempts to extract one frame from the front of buf. It
// returns the frame, the number of bytes consumed, and whether a complete
// frame was available. A partial frame consumes nothing; the caller keeps
// the bytes and retries after the next read.
//
// Lengths beyond the positive int range are not supported; a peer
// announcing one will fail the allocation below rather than be rejected
// up front.
func decodeFrame(buf []byte) (frame, int, bool) {
	if len(buf) < 2 {
		return frame{}, 0, false
	}

	isFin := buf[0]&finBit != 0
	opCode := buf[0] & 0x0f
	masked := buf[1]&maskBit != 0
	length := uint64(buf[1] & 0x7f)

	offset := 2

	switch length {
	case 126:
		if len(buf) < offset+2 {
			return frame{}, 0, false
		}
		length = uint64(binary.BigEndian.Uint16(buf[offset:]))
		offset += 2
	case 127:
		if len(buf) < offset+8 {
			return frame{}, 0, false
		}
		length = binary.BigEndian.Uint64(buf[offset:])
		offset += 8
	}

	var mask []byte
	if masked {
		if len(buf) < offset+4 {
			return frame{}, 0, false
		}
		mask = buf[offset : offset+4]
		offset += 4
	}

	if uint64(len(buf)-offset) < length {
		return frame{}, 0, false
	}

	payload := make([]byte, length)
	copy(payload, buf[offset:offset+int(length)])

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return frame{isFin: isFin, opCode: opCode, length: length, payload: payload}, offset + int(length), true
}

// encodeFrame serializes a frame for the server-to-client direction.
// Server frames are never masked per RFC 6455.
func encodeFrame(frameData frame) []byte {
	buf := make([]byte, 2, 2+len(frameData.payload))
	buf[0] |= frameData.opCode

	if frameData.isFin {
		buf[0] |= finBit
	}

	switch {
	case frameData.length < 126:
		buf[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		buf[1] |= 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(frameData.length))
		buf = append(buf, size...)
	default:
		buf[1] |= 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, frameData.length)
		buf = append(buf, size...)
	}

	return append(buf, frameData.payload...)
}

// Conn frames outbound text payloads onto a hijacked connection. It is the
// hub's MessageWriter; after the handshake the hub goroutine is the only
// writer, so no write lock is needed.
type Conn struct {
	conn  net.Conn
	bufrw *bufio.ReadWriter
}

func newConn(conn net.Conn, bufrw *bufio.ReadWriter) *Conn {
	return &Conn{conn: conn, bufrw: bufrw}
}

// WriteText sends one text frame.
func (that *Conn) WriteText(payload []byte) error {
	frameBytes := encodeFrame(frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(payload)),
		payload: payload,
	})

	if _, err := that.bufrw.Write(frameBytes); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := that.bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush frame: %w", err)
	}

	return nil
}

func (that *Conn) Close() error {
	return that.conn.Close()
}
