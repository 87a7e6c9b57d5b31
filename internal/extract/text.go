// internal/extract/text.go
package extract

import (
	"strings"

	"github.com/valpere/StatHarvester/internal/pipeline"
)

func (e *Extractor) extractText(pageURL string, body []byte, out *Result) error {
	lines := strings.Split(string(body), "\n")
	for i, line := range lines {
		if i >= e.limits.MaxTextLines {
			break
		}
		if !statLineRe.MatchString(line) {
			continue
		}
		rec := e.newRecord(pageURL)
		rec["text_line"] = pipeline.Truncate(pipeline.CleanText(line), 200)
		rec["data_type"] = "text"
		out.Records = append(out.Records, rec)
	}
	return nil
}
