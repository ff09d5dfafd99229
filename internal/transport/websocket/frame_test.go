package websocket

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientFrame builds the wire bytes a client would send: FIN text frame,
// masked with key.
func clientFrame(payload []byte, key [4]byte) []byte {
	buf := []byte{finBit | opText, maskBit}

	length := uint64(len(payload))
	switch {
	case length < 126:
		buf[1] |= byte(length)
	case length < 1<<16:
		buf[1] |= 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(length))
		buf = append(buf, size...)
	default:
		buf[1] |= 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, length)
		buf = append(buf, size...)
	}

	buf = append(buf, key[:]...)

	masked := make([]byte, len(payload))
	for i, b := range payload {
		masked[i] = b ^ key[i%4]
	}

	return append(buf, masked...)
}

func TestFrameRoundTrip(t *testing.T) {
	key := [4]byte{0x37, 0xfa, 0x21, 0x3d}

	// boundary lengths around the 7-bit, 16-bit and 64-bit encodings
	for _, length := range []int{0, 1, 125, 126, 65535, 65536} {
		// Given: a payload of the boundary length
		payload := make([]byte, length)
		for i := range payload {
			payload[i] = byte(i)
		}

		// When: the client masks and sends it, and the server decodes it
		wire := clientFrame(payload, key)
		frameData, consumed, ok := decodeFrame(wire)

		// Then: exactly one frame comes out, unmasked, byte for byte
		require.True(t, ok, "length %d", length)
		assert.Equal(t, len(wire), consumed, "length %d", length)
		assert.True(t, frameData.isFin, "length %d", length)
		assert.Equal(t, opText, frameData.opCode, "length %d", length)
		assert.Equal(t, uint64(length), frameData.length, "length %d", length)
		assert.Equal(t, payload, frameData.payload, "length %d", length)
	}
}

func TestEncodeFrame_ServerFramesAreUnmasked(t *testing.T) {
	// Given: an outbound text payload
	payload := []byte(`{"type":"welcome","id":1}`)

	// When: the server encodes it
	wire := encodeFrame(frame{isFin: true, opCode: opText, length: uint64(len(payload)), payload: payload})

	// Then: FIN and opcode are set, the mask bit is clear, and the payload
	// follows the two-byte header in the clear
	require.Equal(t, finBit|opText, wire[0])
	assert.Zero(t, wire[1]&maskBit)
	assert.Equal(t, byte(len(payload)), wire[1]&0x7f)
	assert.Equal(t, payload, wire[2:])
}

func TestDecodeFrame_PartialBuffer(t *testing.T) {
	key := [4]byte{1, 2, 3, 4}
	wire := clientFrame([]byte(`{"type":"update"}`), key)

	// Given: every strict prefix of a full frame
	for cut := 0; cut < len(wire); cut++ {
		// When: decoding the truncated buffer
		_, consumed, ok := decodeFrame(wire[:cut])

		// Then: nothing is extracted and nothing is consumed
		assert.False(t, ok, "cut %d", cut)
		assert.Zero(t, consumed, "cut %d", cut)
	}

	// When: the final byte arrives
	frameData, consumed, ok := decodeFrame(wire)

	// Then: the frame decodes in full
	require.True(t, ok)
	assert.Equal(t, len(wire), consumed)
	assert.Equal(t, []byte(`{"type":"update"}`), frameData.payload)
}

func TestDecodeFrame_CoalescedFrames(t *testing.T) {
	key := [4]byte{9, 8, 7, 6}

	// Given: two frames delivered in one read
	first := clientFrame([]byte("first"), key)
	second := clientFrame([]byte("second"), key)
	buf := append(append([]byte{}, first...), second...)

	// When: decoding repeatedly, dropping the consumed prefix each time
	frameOne, consumed, ok := decodeFrame(buf)
	require.True(t, ok)
	require.Equal(t, len(first), consumed)
	buf = buf[consumed:]

	frameTwo, consumed, ok := decodeFrame(buf)
	require.True(t, ok)
	require.Equal(t, len(second), consumed)
	buf = buf[consumed:]

	// Then: both payloads come out in order and the buffer is exhausted
	assert.Equal(t, []byte("first"), frameOne.payload)
	assert.Equal(t, []byte("second"), frameTwo.payload)
	assert.Empty(t, buf)

	_, consumed, ok = decodeFrame(buf)
	assert.False(t, ok)
	assert.Zero(t, consumed)
}

func TestDecodeFrame_UnmaskedInbound(t *testing.T) {
	// Given: an inbound frame without the mask bit (as a server would send)
	payload := []byte("plain")
	wire := encodeFrame(frame{isFin: true, opCode: opText, length: uint64(len(payload)), payload: payload})

	// When: decoding it
	frameData, consumed, ok := decodeFrame(wire)

	// Then: the payload passes through untouched
	require.True(t, ok)
	assert.Equal(t, len(wire), consumed)
	assert.Equal(t, payload, frameData.payload)
}

func TestDecodeFrame_CloseOpcode(t *testing.T) {
	// Given: a masked close frame
	wire := clientFrame(nil, [4]byte{5, 5, 5, 5})
	wire[0] = finBit | opClose

	// When: decoding it
	frameData, _, ok := decodeFrame(wire)

	// Then: the frame decodes with its opcode intact; the read loop is the
	// one that drops non-text frames
	require.True(t, ok)
	assert.Equal(t, opClose, frameData.opCode)
}
