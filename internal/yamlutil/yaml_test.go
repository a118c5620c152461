package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type testDoc struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid yaml", []byte("name: test\ncount: 3\n"), nil},
		{"empty data", nil, ErrNilData},
		{"oversized input", []byte("name: " + strings.Repeat("x", MaxInputSize)), ErrInputTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var doc testDoc
			err := Unmarshal(tt.data, &doc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if doc.Name != "test" || doc.Count != 3 {
				t.Errorf("Unmarshal() = %+v", doc)
			}
		})
	}
}

func TestUnmarshalNilDestination(t *testing.T) {
	t.Parallel()

	if err := Unmarshal([]byte("a: 1"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("Unmarshal() error = %v, want ErrNilDestination", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	want := testDoc{Name: "round", Count: 7}
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got testDoc
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
