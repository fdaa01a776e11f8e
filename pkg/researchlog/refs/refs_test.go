package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "no references",
			content: "<p>plain text</p>",
			want:    nil,
		},
		{
			name:    "single image",
			content: `<img src="/api/assets/123-photo.png">`,
			want:    []string{"123-photo.png"},
		},
		{
			name:    "percent-encoded hangul",
			content: `<img src="/api/assets/%ED%95%9C%EA%B8%80.png">`,
			want:    []string{"한글.png"},
		},
		{
			name:    "decoded exactly once",
			content: `<img src="/api/assets/100-a%2520b.png">`,
			want:    []string{"100-a%20b.png"},
		},
		{
			name:    "plus is not a space",
			content: `<img src="/api/assets/1-a+b.png">`,
			want:    []string{"1-a+b.png"},
		},
		{
			name: "order and duplicates preserved",
			content: `<img src="/api/assets/2-b.png"><video src="/api/assets/1-a.mp4"></video>` +
				`<img src="/api/assets/2-b.png">`,
			want: []string{"2-b.png", "1-a.mp4", "2-b.png"},
		},
		{
			name:    "other sources ignored",
			content: `<img src="https://example.com/x.png"><img src="/static/y.png">`,
			want:    nil,
		},
		{
			name:    "single quotes are not matched",
			content: `<img src='/api/assets/1-a.png'>`,
			want:    nil,
		},
		{
			name:    "empty token is not a reference",
			content: `<img src="/api/assets/">`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collect(Extract(tt.content)))
		})
	}
}

func TestExtract_MalformedTokenSkipped(t *testing.T) {
	content := `<img src="/api/assets/1-ok.png"><img src="/api/assets/%E0%A4%A.png">` +
		`<img src="/api/assets/%FF.png"><img src="/api/assets/2-ok.png">`

	var skipped []string
	got := Collect(Extract(content, OnDecodeError(func(token string, err error) {
		require.Error(t, err)
		skipped = append(skipped, token)
	})))

	assert.Equal(t, []string{"1-ok.png", "2-ok.png"}, got)
	assert.Equal(t, []string{"%E0%A4%A.png", "%FF.png"}, skipped)
}

func TestExtract_IsLazy(t *testing.T) {
	content := `<img src="/api/assets/1.png"><img src="/api/assets/%ZZ"><img src="/api/assets/2.png">`

	decodeErrors := 0
	seq := Extract(content, OnDecodeError(func(string, error) { decodeErrors++ }))

	for name := range seq {
		assert.Equal(t, "1.png", name)
		break
	}
	assert.Equal(t, 0, decodeErrors, "scan must stop once the consumer stops pulling")
}

func TestUnique(t *testing.T) {
	content := `<img src="/api/assets/a.png"><img src="/api/assets/b.png"><img src="/api/assets/a.png">`
	assert.Equal(t, []string{"a.png", "b.png"}, Collect(Unique(Extract(content))))
}

func TestDecode(t *testing.T) {
	name, err := Decode("%ED%95%9C%EA%B8%80.png")
	require.NoError(t, err)
	assert.Equal(t, "한글.png", name)

	_, err = Decode("%G1")
	assert.Error(t, err)

	_, err = Decode("%C3%28")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestAssetURL(t *testing.T) {
	assert.Equal(t, "/api/assets/123-photo.png", AssetURL("123-photo.png"))
}
