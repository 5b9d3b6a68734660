package ocr

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner serves canned tesseract output so no binary is needed.
type stubRunner struct {
	text    string
	tsvConf []int
	err     error
}

func (s stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		var b strings.Builder
		b.WriteString("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n")
		for i, c := range s.tsvConf {
			fmt.Fprintf(&b, "5\t1\t1\t1\t1\t%d\t0\t0\t10\t10\t%d\tword\n", i+1, c)
		}
		return []byte(b.String()), nil, nil
	}
	return []byte(s.text), nil, nil
}

func TestExtract_rejects_unsupported_extension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "/scans/page.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestExtract_normalizes_text_and_blends_confidence(t *testing.T) {
	e := NewExtractor(Config{EnableTSVConfidence: true}, nil)
	e.runner = stubRunner{
		text:    "RECORD NO:  1047\r\n\r\n\r\n\r\nJune 4, 2007\t here",
		tsvConf: []int{85, 95},
	}

	res, err := e.Extract(context.Background(), "/scans/page.png")
	require.NoError(t, err)

	assert.Equal(t, "RECORD NO: 1047\n\nJune 4, 2007 here", res.Text)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "png", res.SourceType)

	// mean TSV conf 0.90 blended 70/30 with the heuristic score
	heur := heuristicConfidence(res.Text)
	assert.InDelta(t, 0.7*0.9+0.3*heur, res.Confidence, 0.001)
}

func TestExtract_falls_back_to_heuristic_confidence(t *testing.T) {
	e := NewExtractor(Config{EnableTSVConfidence: false}, nil)
	e.runner = stubRunner{text: "no recognizable artifacts"}

	res, err := e.Extract(context.Background(), "/scans/page.jpg")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, res.Confidence, 0.001)
}

func TestExtract_propagates_runner_failure(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = stubRunner{err: fmt.Errorf("exit status 1")}

	_, err := e.Extract(context.Background(), "/scans/page.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestHeuristicConfidence_boosts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float32
	}{
		{name: "empty", text: "", want: 0.2},
		{name: "date_only", text: "6/4/2007", want: 0.4},
		{name: "email_only", text: "a@b.com", want: 0.35},
		{name: "form_code", text: "52361_204715", want: 0.35},
		{name: "record_no", text: "1047", want: 0.35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, heuristicConfidence(tt.text), 0.001)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "crlf_to_lf", in: "a\r\nb", want: "a\nb"},
		{name: "tabs_and_runs", in: "a\t\tb   c", want: "a b c"},
		{name: "blank_collapse", in: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "trailing_space", in: "a   \nb", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
