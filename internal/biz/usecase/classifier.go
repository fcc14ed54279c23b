package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

// Zero-width characters used by ParkMeBot-style services to encode a
// status flag at the start of an otherwise normal-looking reply.
const (
	zeroChar1 = "\u200c" // ZERO WIDTH NON-JOINER
	zeroChar2 = "\u200b" // ZERO WIDTH SPACE
)

// The three known 4-symbol status markers.
var (
	markerReserved    = zeroChar1 + zeroChar1 + zeroChar1 + zeroChar1
	markerParked      = zeroChar1 + zeroChar1 + zeroChar1 + zeroChar2
	markerMaintenance = zeroChar1 + zeroChar1 + zeroChar2 + zeroChar1
)

// Classifier turns a raw probe reply into a verdict.
type Classifier struct {
	offline *regexp.Regexp
}

// NewClassifier compiles the configured offline-language patterns.
// An empty pattern list disables offline-language detection.
func NewClassifier(offlinePatterns []string) (*Classifier, error) {
	c := &Classifier{}
	if len(offlinePatterns) > 0 {
		re, err := regexp.Compile("(?i)" + strings.Join(offlinePatterns, "|"))
		if err != nil {
			return nil, fmt.Errorf("failed to compile offline patterns: %w", err)
		}
		c.offline = re
	}
	return c, nil
}

// Classify decides whether a reply counts as the bot being up.
// No reply, a known zero-width status marker, and offline-language text
// all collapse to the empty verdict: none of them mean "mark as up".
func (c *Classifier) Classify(reply domain.Reply) domain.Verdict {
	if reply.Empty() {
		return domain.VerdictEmpty
	}
	switch decodeZeroWidth(reply.Text) {
	case markerReserved, markerParked, markerMaintenance:
		return domain.VerdictEmpty
	}
	if c.offline != nil && c.offline.MatchString(strings.ToLower(reply.Text)) {
		return domain.VerdictEmpty
	}
	return domain.VerdictResponded
}

// decodeZeroWidth extracts the leading run of zero-width marker
// characters from a reply. A garbled or partial marker simply fails the
// comparison against the known sequences and the reply is classified as
// if no marker were present.
func decodeZeroWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		c := string(r)
		if c != zeroChar1 && c != zeroChar2 {
			break
		}
		b.WriteString(c)
	}
	return b.String()
}
