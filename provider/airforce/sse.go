package airforce

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "data: [DONE]"

	// limitMarker is sent as delta content when the prompt is too long.
	limitMarker = "One message exceeds the 1000chars per message limit"

	maxLineSize = 1 << 20
)

type lineKind int

const (
	lineSkip lineKind = iota
	lineDone
	lineContent
	lineMalformed
	lineLimit
	lineInvalid
)

func (k lineKind) String() string {
	switch k {
	case lineDone:
		return "done"
	case lineContent:
		return "content"
	case lineMalformed:
		return "malformed"
	case lineLimit:
		return "limit"
	case lineInvalid:
		return "invalid"
	default:
		return "skip"
	}
}

// decodeLine classifies one line of the chat stream. For lineContent the second result
// is the delta text; for lineMalformed it is the offending payload. A line that is not
// valid UTF-8 is lineInvalid and ends the stream.
func decodeLine(raw []byte) (lineKind, string) {
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return lineSkip, ""
	}

	if !utf8.Valid(line) {
		return lineInvalid, ""
	}

	text := string(line)
	if !strings.HasPrefix(text, dataPrefix) {
		return lineSkip, ""
	}
	if text == doneSentinel {
		return lineDone, ""
	}

	payload := text[len(dataPrefix):]
	if !gjson.Valid(payload) {
		return lineMalformed, payload
	}
	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return lineMalformed, payload
	}

	content := doc.Get("choices.0.delta.content")
	if content.Type != gjson.String {
		return lineSkip, ""
	}
	if strings.Contains(content.Str, limitMarker) {
		return lineLimit, ""
	}
	return lineContent, content.Str
}
