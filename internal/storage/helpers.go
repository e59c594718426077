package storage

import (
	"bytes"
	"fmt"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func encodeColorMap(cm *colormap.ColorMap) ([]byte, error) {
	var buf bytes.Buffer
	if err := colormap.Encode(&buf, cm); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeColorMap(name string, data []byte) (*colormap.ColorMap, error) {
	cm, err := colormap.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding stored colormap %q: %w", name, err)
	}
	return cm, nil
}
