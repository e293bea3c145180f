package serializer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// NewGzipSerializer wraps inner and gzip-compresses its output.
func NewGzipSerializer(inner ISerializer) ISerializer {
	return &gzipSerializerImpl{inner: inner}
}

// NewBase64Serializer wraps inner and encodes its output as standard base64 text.
func NewBase64Serializer(inner ISerializer) ISerializer {
	return &base64SerializerImpl{inner: inner}
}

type gzipSerializerImpl struct {
	inner ISerializer
}

type base64SerializerImpl struct {
	inner ISerializer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g gzipSerializerImpl) Serialize(data map[string]any) ([]byte, error) {
	raw, err := g.inner.Serialize(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func (g gzipSerializerImpl) Deserialize(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return map[string]any{}, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return g.inner.Deserialize(raw)
}

func (s base64SerializerImpl) Serialize(data map[string]any) ([]byte, error) {
	raw, err := s.inner.Serialize(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

func (s base64SerializerImpl) Deserialize(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return map[string]any{}, nil
	}
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(b))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return s.inner.Deserialize(raw[:n])
}
