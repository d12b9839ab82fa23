package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// ReadPositions loads explicit node positions from path. The file may be a
// JSON array of points ([{"x":1,"y":2}, ...]), an array of pairs
// ([[1,2], ...]), or a layout file written by graph.WriteLayoutFile.
func ReadPositions(path string) ([]force.Point, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read positions %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read positions %s: %w", path, err)
	}
	return ParsePositions(data)
}

// ParsePositions decodes any of the formats ReadPositions accepts.
func ParsePositions(data []byte) ([]force.Point, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "positions are empty")
	}

	if data[0] == '{' {
		l, err := graph.UnmarshalLayout(data)
		if err != nil {
			return nil, err
		}
		return l.Positions(), nil
	}

	var points []force.Point
	if err := json.Unmarshal(data, &points); err == nil {
		return points, nil
	}

	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode positions")
	}
	points = make([]force.Point, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "position %d has %d coordinates, want 2", i, len(p))
		}
		points[i] = force.Point{X: p[0], Y: p[1]}
	}
	return points, nil
}

// WritePositions writes positions as a JSON array of points.
func WritePositions(path string, pos []force.Point) error {
	data, err := json.MarshalIndent(pos, "", "  ")
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// PositionsHash identifies a set of starting positions for cache keys.
func PositionsHash(pos []force.Point) string {
	data, _ := json.Marshal(pos)
	return Hash(data)
}
