package collector

import (
	"io"
	"os"
)

// multiFileReader reads the named log files in sequence, opening each one
// lazily so a missing later file only fails once reading reaches it.
type multiFileReader struct {
	names   []string
	current *os.File
}

func newMultiFileReader(names []string) *multiFileReader {
	return &multiFileReader{names: names}
}

func (m *multiFileReader) Read(p []byte) (int, error) {
	for {
		if m.current == nil {
			if len(m.names) == 0 {
				return 0, io.EOF
			}
			f, err := os.Open(m.names[0])
			if err != nil {
				return 0, err
			}
			m.names = m.names[1:]
			m.current = f
		}
		n, err := m.current.Read(p)
		if err == io.EOF {
			m.current.Close()
			m.current = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (m *multiFileReader) Close() error {
	if m.current != nil {
		return m.current.Close()
	}
	return nil
}
