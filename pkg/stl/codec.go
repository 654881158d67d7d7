package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gosurf/pkg/geometry"
)

const (
	headerSize = 80
	facetSize  = 50
)

// Parse reads an STL file and returns a Model.
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return Decode(data)
}

// Decode parses STL data. A payload whose length matches the binary layout
// for its facet count is read as binary, even when the header starts with
// "solid" as some exporters write.
func Decode(data []byte) (*Model, error) {
	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize : headerSize+4])
		if uint64(len(data)) == uint64(headerSize+4)+uint64(count)*facetSize {
			return decodeBinary(data, int(count))
		}
	}

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return decodeASCII(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unrecognized STL data (%d bytes)", len(data))
}

func decodeASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var normal geometry.Vector3
	var corners []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet", line)
			}
			v, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normal = v
			corners = corners[:0]

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: malformed vertex", line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			corners = append(corners, v)

		case "endfacet":
			if len(corners) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices", line, len(corners))
			}
			model.AddFacet(Facet{Normal: normal, V1: corners[0], V2: corners[1], V3: corners[2]})
			corners = corners[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid number %q", f)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

func decodeBinary(data []byte, count int) (*Model, error) {
	name := strings.TrimRight(string(data[:headerSize]), "\x00 ")
	name = strings.TrimSpace(strings.TrimPrefix(name, "solid"))
	model := &Model{Name: name, Facets: make([]Facet, 0, count)}

	offset := headerSize + 4
	for i := 0; i < count; i++ {
		record := data[offset : offset+facetSize]
		model.AddFacet(Facet{
			Normal: readVector(record[0:12]),
			V1:     readVector(record[12:24]),
			V2:     readVector(record[24:36]),
			V3:     readVector(record[36:48]),
		})
		offset += facetSize
	}
	return model, nil
}

func readVector(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	)
}

// WriteBinary encodes the model in binary STL. Coordinates are stored as
// float32.
func (m *Model) WriteBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Facets))); err != nil {
		return fmt.Errorf("failed to write facet count: %w", err)
	}

	record := make([]byte, facetSize)
	for i, f := range m.Facets {
		putVector(record[0:12], f.Normal)
		putVector(record[12:24], f.V1)
		putVector(record[24:36], f.V2)
		putVector(record[36:48], f.V3)
		record[48], record[49] = 0, 0
		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("failed to write facet %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func putVector(b []byte, v geometry.Vector3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(v.Z)))
}

// WriteFile writes the model to path in binary STL.
func (m *Model) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := m.WriteBinary(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
