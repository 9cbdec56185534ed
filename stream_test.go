// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sproto_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	sproto "github.com/pk910/go-sproto"
)

func TestStreamRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	sw := sproto.NewStreamWriter(buf)

	require.NoError(t, sw.WriteFrame(alicePayload))
	require.NoError(t, sw.WriteFrame(bobPayload))
	require.NoError(t, sw.WriteFrame(nil))
	require.Equal(t, int64(12+len(alicePayload)+len(bobPayload)), sw.BytesWritten())
	require.Equal(t, fromHex("11 00 00 00"), buf.Bytes()[:4])

	sr := sproto.NewStreamReader(bytes.NewReader(buf.Bytes()), 0)

	alice := &Person{}
	require.NoError(t, sr.ReadMessage(alice))
	require.Equal(t, "Alice", alice.Name)
	require.Equal(t, int64(13), alice.Age)

	bob := &Person{}
	require.NoError(t, sr.ReadMessage(bob))
	require.Len(t, bob.Children, 2)

	frame, err := sr.ReadFrame()
	require.NoError(t, err)
	require.Empty(t, frame)

	_, err = sr.ReadFrame()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, sw.BytesWritten(), sr.BytesRead())
}

func TestStreamReflection(t *testing.T) {
	s := sproto.NewSproto(nil)
	buf := &bytes.Buffer{}
	sw := sproto.NewStreamWriter(buf)

	people := []TaggedPerson{
		{Name: "Alice", Age: 13},
		{Name: "Bob", Age: 40, Children: []*TaggedPerson{{Name: "Carol", Age: 5}}},
	}
	for i := range people {
		require.NoError(t, s.MarshalWriter(&people[i], sw))
	}

	sr := sproto.NewStreamReader(buf, 1024)
	for i := range people {
		decoded := TaggedPerson{}
		require.NoError(t, s.UnmarshalReader(&decoded, sr))
		require.Equal(t, people[i], decoded)
	}

	require.ErrorIs(t, s.UnmarshalReader(&TaggedPerson{}, sr), io.EOF)
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
		max    int
		err    error
	}{
		{
			name:   "TruncatedHeader",
			stream: fromHex("05 00"),
			err:    sproto.ErrUnexpectedEOF,
		},
		{
			name:   "TruncatedPayload",
			stream: fromHex("05 00 00 00 01 02"),
			err:    sproto.ErrUnexpectedEOF,
		},
		{
			name:   "FrameTooBig",
			stream: fromHex("00 01 00 00"),
			max:    255,
			err:    sproto.ErrFrameTooBig,
		},
		{
			name:   "Empty",
			stream: nil,
			err:    io.EOF,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sr := sproto.NewStreamReader(bytes.NewReader(test.stream), test.max)
			_, err := sr.ReadFrame()
			require.ErrorIs(t, err, test.err)
		})
	}

	// a frame holding a malformed message fails in the decoder, not the stream
	sr := sproto.NewStreamReader(bytes.NewReader(fromHex("02 00 00 00 05 00")), 0)
	require.ErrorIs(t, sr.ReadMessage(&Person{}), sproto.ErrMalformedHeader)
}
