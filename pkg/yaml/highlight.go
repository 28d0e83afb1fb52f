package yaml

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// DefaultStyle is the chroma style used by [Highlight].
const DefaultStyle = "onedark"

// Highlight renders YAML source with chroma terminal colors matching the
// given color profile. The source is returned unchanged for [termenv.Ascii].
func Highlight(src []byte, profile termenv.Profile) ([]byte, error) {
	formatterName := ""
	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	case termenv.Ascii:
		return src, nil
	}

	lexer := chroma.Coalesce(lexers.Get("YAML"))

	iterator, err := lexer.Tokenise(nil, string(src))
	if err != nil {
		return nil, fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = formatters.Get(formatterName).Format(buf, styles.Get(DefaultStyle), iterator)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}

	return buf.Bytes(), nil
}
