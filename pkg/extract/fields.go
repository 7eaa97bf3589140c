package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// BookingInfo is the extraction result. An empty field means it was not
// found; absence is a value, never an error.
type BookingInfo struct {
	Date  string
	Time  string
	Court string
}

// Complete reports whether all three fields were resolved. Completeness
// gates whether a caller persists the booking.
func (b BookingInfo) Complete() bool {
	return b.Date != "" && b.Time != "" && b.Court != ""
}

// Missing lists the unresolved field names, for the "please enter manually"
// path.
func (b BookingInfo) Missing() []string {
	var m []string
	if b.Date == "" {
		m = append(m, "date")
	}
	if b.Time == "" {
		m = append(m, "time")
	}
	if b.Court == "" {
		m = append(m, "court")
	}
	return m
}

// Pattern families per field, in priority order. The first family that
// yields any match wins; the first occurrence in reading order wins within
// a family. Looser shapes (single-digit day/month) are accepted only for
// years starting with 20.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`),
	regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/20\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.20\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}-\d{1,2}-20\d{2}\b`),
}

// Time shapes tolerate spaces around the range separator and a semicolon
// misread in place of the colon; both are normalized away on emit.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}[:;]\d{2}\s*-\s*\d{2}[:;]\d{2}`),
	regexp.MustCompile(`\d{1,2}[:;]\d{2}\s*-\s*\d{1,2}[:;]\d{2}`),
}

// Court labels in both scripts, digits on either side.
var courtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*מגרש`),
	regexp.MustCompile(`מגרש\s*[:.]?\s*(\d+)`),
	regexp.MustCompile(`(?i)court\s*[:.]?\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*court`),
}

// Context-anchored fallbacks: label word, punctuation, value.
var (
	dateContextRE  = regexp.MustCompile(`(?i)(?:תאריך|date)\s*[:.]*\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{4})`)
	timeContextRE  = regexp.MustCompile(`(?i)(?:שעות|time)\s*[:.]*\s*(\d{1,2}[:;]\d{2}\s*-\s*\d{1,2}[:;]\d{2})`)
	courtContextRE = regexp.MustCompile(`(?i)(?:מגרש|court)\s*[:.]*\s*(\d{1,2})`)

	digitRunRE = regexp.MustCompile(`\d+`)
)

// ExtractFields recovers the (date, time, court) triple from the combined
// OCR text. The hint is optional side-channel text (e.g. an image caption)
// consulted only for fields still absent after the combined text scan.
func ExtractFields(combined, hint string, cfg Config) BookingInfo {
	cfg = cfg.normalized()
	info := BookingInfo{
		Date:  firstOf(pinnedHit(combined, cfg.Pinned.Dates), scanDate(combined)),
		Time:  firstOf(pinnedHit(combined, cfg.Pinned.Times), scanTime(combined)),
		Court: firstOf(pinnedHit(combined, cfg.Pinned.Courts), scanCourt(combined, cfg)),
	}
	if hint != "" {
		if info.Date == "" {
			info.Date = scanDate(hint)
		}
		if info.Time == "" {
			info.Time = scanTime(hint)
		}
		if info.Court == "" {
			info.Court = scanCourt(hint, cfg)
		}
	}
	return info
}

// pinnedHit returns the first deployment-pinned literal present in the text.
func pinnedHit(text string, pinned []string) string {
	for _, p := range pinned {
		if p != "" && strings.Contains(text, p) {
			return p
		}
	}
	return ""
}

// scanDate preserves the matched separator as found; no normalization.
func scanDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	if m := dateContextRE.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return ""
}

func scanTime(text string) string {
	for _, re := range timePatterns {
		if m := re.FindString(text); m != "" {
			return normalizeTimeToken(m)
		}
	}
	if m := timeContextRE.FindStringSubmatch(text); len(m) > 1 {
		return normalizeTimeToken(m[1])
	}
	return ""
}

func scanCourt(text string, cfg Config) string {
	for _, re := range courtPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	if m := courtContextRE.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return standaloneCourt(text, cfg.CourtMin, cfg.CourtMax)
}

// standaloneCourt is the court-only last resort: the first maximal 1-2 digit
// run inside the plausible range. The range rejects obviously-wrong tokens
// such as year fragments.
func standaloneCourt(text string, lo, hi int) string {
	for _, run := range digitRunRE.FindAllString(text, -1) {
		if len(run) > 2 {
			continue
		}
		n, err := strconv.Atoi(run)
		if err != nil || n < lo || n > hi {
			continue
		}
		return run
	}
	return ""
}

// normalizeTimeToken repairs the semicolon OCR artifact and drops spaces
// around the range separator.
func normalizeTimeToken(s string) string {
	s = strings.ReplaceAll(s, ";", ":")
	return strings.ReplaceAll(s, " ", "")
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
