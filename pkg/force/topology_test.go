package force

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

func TestEdges(t *testing.T) {
	tests := []struct {
		name string
		adj  [][]float64
		want []Edge
	}{
		{
			name: "single edge counted once",
			adj:  [][]float64{{0, 1}, {1, 0}},
			want: []Edge{{0, 1}},
		},
		{
			name: "diagonal ignored",
			adj:  [][]float64{{1, 0}, {0, 1}},
			want: nil,
		},
		{
			name: "path",
			adj: [][]float64{
				{0, 1, 0},
				{1, 0, 1},
				{0, 1, 0},
			},
			want: []Edge{{0, 1}, {1, 2}},
		},
		{
			name: "weighted entries are edges",
			adj:  [][]float64{{0, 2.5}, {2.5, 0}},
			want: []Edge{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Edges(tt.adj)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Edges() = %v, want %v", got, tt.want)
			}
			for _, e := range got {
				if e.U >= e.V {
					t.Errorf("edge %v not ordered", e)
				}
			}
		})
	}
}

func TestValidateAdjacency(t *testing.T) {
	tests := []struct {
		name    string
		adj     [][]float64
		wantErr bool
	}{
		{"single node", [][]float64{{0}}, false},
		{"symmetric", [][]float64{{0, 1}, {1, 0}}, false},
		{"self loop", [][]float64{{1, 0}, {0, 0}}, false},

		{"nil", nil, true},
		{"empty", [][]float64{}, true},
		{"ragged", [][]float64{{0, 1}, {1}}, true},
		{"wide", [][]float64{{0, 1, 0}, {1, 0, 0}}, true},
		{"asymmetric", [][]float64{{0, 1}, {0, 0}}, true},
		{"nan", [][]float64{{0, math.NaN()}, {math.NaN(), 0}}, true},
		{"inf", [][]float64{{math.Inf(1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdjacency(tt.adj)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAdjacency() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestNodeEqual(t *testing.T) {
	a := Node{ID: 3}
	b := Node{ID: 3}
	b.Pos.X = 10
	b.Disp.Y = -1
	if !a.Equal(b) {
		t.Error("nodes with the same ID should be equal regardless of state")
	}
	if a.Equal(Node{ID: 4}) {
		t.Error("nodes with different IDs should not be equal")
	}
}
