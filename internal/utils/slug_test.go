package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World!", "hello-world"},
		{"lowercases", "NEWS", "news"},
		{"accents decompose", "Crème Brûlée", "creme-brulee"},
		{"punctuation stripped without separator", "can't stop", "cant-stop"},
		{"underscores collapse", "draft__one", "draft-one"},
		{"mixed separator runs", "a -_ b", "a-b"},
		{"leading and trailing noise", "  --Hello--  ", "hello"},
		{"digits kept", "Top 10 Posts of 2024", "top-10-posts-of-2024"},
		{"non-ascii only", "日本語", ""},
		{"emoji only", "🚀🚀", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	titles := []string{"Hello World!", "Crème Brûlée", "Top 10 Posts of 2024", "draft__one"}
	for _, title := range titles {
		once := Slugify(title)
		assert.Equal(t, once, Slugify(once), "slugifying %q twice should be stable", title)
	}
}
