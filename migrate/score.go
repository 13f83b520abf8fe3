package migrate

import "github.com/poiesic/curator/core"

// score ranks records for survival: an AI summary outranks a body, which
// outranks tag count.
type score struct {
	hasSummary bool
	hasBody    bool
	tags       int
}

func scoreOf(e *core.Entry) score {
	return score{
		hasSummary: e.AISummary != "",
		hasBody:    e.BodyContent != "",
		tags:       len(e.Tags),
	}
}

// compareScore returns a positive number when a outranks b, negative when b
// outranks a, and zero on a tie.
func compareScore(a, b *core.Entry) int {
	sa, sb := scoreOf(a), scoreOf(b)
	if c := compareBool(sa.hasSummary, sb.hasSummary); c != 0 {
		return c
	}
	if c := compareBool(sa.hasBody, sb.hasBody); c != 0 {
		return c
	}
	return sa.tags - sb.tags
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
