package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
)

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "emphasis",
			src:  `[[+markdown "**Implementors** of *Extend*"]]`,
			want: "<p><strong>Implementors</strong> of <em>Extend</em></p>",
		},
		{
			name: "one paragraph per argument",
			src:  `[[+markdown first second]]`,
			want: "<p>first</p>\n<p>second</p>",
		},
		{
			name: "inline code",
			src:  "[[+markdown \"see `Vec`\"]]",
			want: "<p>see <code>Vec</code></p>",
		},
		{
			name: "no arguments",
			src:  `[[+markdown]]`,
			want: "",
		},
	}

	reg := registry.New()
	reg.RegisterModules(&Module{})

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			tmpl, err := fragments.Parse(tc.src)
			require.NoError(t, err)
			reg.Install(tmpl)

			// --- Act ---
			var b strings.Builder
			err = tmpl.Render(&b)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.String())
		})
	}
}
