package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{input: "0", want: 0},
		{input: "1024", want: 1024},
		{input: "1024B", want: 1024},
		{input: "1024b", want: 1024},

		{input: "1Ki", want: KiB},
		{input: "1KiB", want: KiB},
		{input: "100Mi", want: 100 * MiB},
		{input: "1Gi", want: GiB},
		{input: "1gi", want: GiB},
		{input: "1GI", want: GiB},
		{input: "2TiB", want: 2 * TiB},

		{input: "1K", want: KB},
		{input: "100MB", want: 100 * MB},
		{input: "1GB", want: GB},
		{input: "1TB", want: TB},

		{input: "  1Gi", want: GiB},
		{input: "1Gi  ", want: GiB},
		{input: "1 Gi", want: GiB},

		{input: "1.5Mi", want: ByteSize(1.5 * float64(MiB))},
		{input: "0.5Gi", want: ByteSize(0.5 * float64(GiB))},

		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "1Xi", wantErr: true},
		{input: "-1Gi", wantErr: true},
		{input: "Gi", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByteSizeUnmarshalText(t *testing.T) {
	var b ByteSize
	require.NoError(t, b.UnmarshalText([]byte("1Gi")))
	assert.Equal(t, GiB, b)

	assert.Error(t, b.UnmarshalText([]byte("invalid")))
}

func TestByteSizeString(t *testing.T) {
	assert.Equal(t, "512B", ByteSize(512).String())
	assert.Equal(t, "2.00KiB", (2 * KiB).String())
	assert.Equal(t, "100.00MiB", (100 * MiB).String())
	assert.Equal(t, "1.50GiB", ByteSize(1.5*float64(GiB)).String())
	assert.Equal(t, "2.00TiB", (2 * TiB).String())
}
