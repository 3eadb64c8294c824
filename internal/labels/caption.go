package labels

import (
	"fmt"

	"qrsite/internal/builderr"
	"qrsite/internal/textutil"
)

// fontStep is how far the caption size drops per attempt, in points.
const fontStep = 0.5

// measureFunc reports the rendered width in millimetres of text at size pt.
type measureFunc func(text string, size float64) float64

// fitCaption finds the largest size between maxSize and minSize at which text
// fits into width. When nothing fits, the text is shortened at minSize and
// ends in an ellipsis. A LayoutError is returned if not even one character
// and the ellipsis fit.
func fitCaption(measure measureFunc, entryID, text string, width, maxSize, minSize float64) (string, float64, error) {
	for size := maxSize; size > minSize+epsilon; size -= fontStep {
		if measure(text, size) <= width {
			return text, size, nil
		}
	}
	if measure(text, minSize) <= width {
		return text, minSize, nil
	}
	runes := []rune(text)
	for keep := len(runes) - 1; keep >= 1; keep-- {
		candidate := string(runes[:keep]) + textutil.Ellipsis
		if measure(candidate, minSize) <= width {
			return candidate, minSize, nil
		}
	}
	return "", 0, &builderr.LayoutError{
		EntryID: entryID,
		Reason:  fmt.Sprintf("caption %q does not fit %.1f mm even at %.1f pt", text, width, minSize),
	}
}
