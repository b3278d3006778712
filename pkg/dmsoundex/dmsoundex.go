// Package dmsoundex implements the Daitch–Mokotoff Soundex, a surname
// encoding that maps a name to one or more six-digit codes. Unlike the
// classic Soundex it codes letter groups rather than single letters and
// branches on the ambiguous groups (rz, ch, ck, c, j), so one name can
// yield several codes.
package dmsoundex

import (
	"strings"
)

// rule holds the three code columns of one pattern: at the start of the
// name, before a vowel, and elsewhere. The sentinel "999" means "emit
// nothing at this step".
type rule struct {
	start       string
	beforeVowel string
	elsewhere   string
}

// skip is the no-emit sentinel.
const skip = "999"

// maxPatternLen is the longest pattern in the table ("schtsch").
const maxPatternLen = 7

// table is the published D–M coding table, keyed by lowercase pattern.
// Longest match wins, so lookup order is by decreasing length, not map
// order.
var table = map[string]rule{
	"schtsch": {"2", "4", "4"},

	"schtsh": {"2", "4", "4"},
	"schtch": {"2", "4", "4"},

	"shtch": {"2", "4", "4"},
	"shtsh": {"2", "4", "4"},
	"stsch": {"2", "4", "4"},
	"ttsch": {"4", "4", "4"},
	"zhdzh": {"2", "4", "4"},

	"csz": {"4", "4", "4"},
	"czs": {"4", "4", "4"},
	"drz": {"4", "4", "4"},
	"drs": {"4", "4", "4"},
	"dsh": {"4", "4", "4"},
	"dsz": {"4", "4", "4"},
	"dzh": {"4", "4", "4"},
	"dzs": {"4", "4", "4"},
	"sch": {"4", "4", "4"},
	"sht": {"2", "43", "43"},
	"szt": {"2", "43", "43"},
	"shd": {"2", "43", "43"},
	"szd": {"2", "43", "43"},
	"scht": {"2", "43", "43"},
	"schd": {"2", "43", "43"},
	"shch": {"2", "4", "4"},
	"stch": {"2", "4", "4"},
	"strz": {"2", "4", "4"},
	"strs": {"2", "4", "4"},
	"stsh": {"2", "4", "4"},
	"szcz": {"2", "4", "4"},
	"szcs": {"2", "4", "4"},
	"tch":  {"4", "4", "4"},
	"ttch": {"4", "4", "4"},
	"tsch": {"4", "4", "4"},
	"trz":  {"4", "4", "4"},
	"trs":  {"4", "4", "4"},
	"tts":  {"4", "4", "4"},
	"ttsz": {"4", "4", "4"},
	"ttz":  {"4", "4", "4"},
	"tzs":  {"4", "4", "4"},
	"tsz":  {"4", "4", "4"},
	"zdz":  {"2", "4", "4"},
	"zhd":  {"2", "43", "43"},
	"zsch": {"4", "4", "4"},
	"chs":  {"5", "54", "54"},

	"ai": {"0", "1", skip},
	"aj": {"0", "1", skip},
	"ay": {"0", "1", skip},
	"au": {"0", "7", skip},
	"cz": {"4", "4", "4"},
	"cs": {"4", "4", "4"},
	"ds": {"4", "4", "4"},
	"dz": {"4", "4", "4"},
	"dt": {"3", "3", "3"},
	"ei": {"0", "1", skip},
	"ej": {"0", "1", skip},
	"ey": {"0", "1", skip},
	"eu": {"1", "1", skip},
	"fb": {"7", "7", "7"},
	"ia": {"1", skip, skip},
	"ie": {"1", skip, skip},
	"io": {"1", skip, skip},
	"iu": {"1", skip, skip},
	"ks": {"5", "54", "54"},
	"kh": {"5", "5", "5"},
	"mn": {"66", "66", "66"},
	"nm": {"66", "66", "66"},
	"oi": {"0", "1", skip},
	"oj": {"0", "1", skip},
	"oy": {"0", "1", skip},
	"pf": {"7", "7", "7"},
	"ph": {"7", "7", "7"},
	"rz": {"94", "94", "94"},
	"rs": {"94", "94", "94"},
	"sh": {"4", "4", "4"},
	"st": {"2", "43", "43"},
	"sc": {"2", "4", "4"},
	"sd": {"2", "43", "43"},
	"sz": {"4", "4", "4"},
	"th": {"3", "3", "3"},
	"ts": {"4", "4", "4"},
	"tc": {"4", "4", "4"},
	"tz": {"4", "4", "4"},
	"ui": {"0", "1", skip},
	"uj": {"0", "1", skip},
	"uy": {"0", "1", skip},
	"ue": {"0", skip, skip},
	"zd": {"2", "43", "43"},
	"zh": {"4", "4", "4"},
	"zs": {"4", "4", "4"},
	"ch": {"5", "5", "5"},
	"ck": {"5", "5", "5"},

	"a": {"0", skip, skip},
	"b": {"7", "7", "7"},
	"c": {"5", "5", "5"},
	"d": {"3", "3", "3"},
	"e": {"0", skip, skip},
	"f": {"7", "7", "7"},
	"g": {"5", "5", "5"},
	"h": {"5", "5", skip},
	"i": {"0", skip, skip},
	"j": {"1", skip, skip},
	"k": {"5", "5", "5"},
	"l": {"8", "8", "8"},
	"m": {"6", "6", "6"},
	"n": {"6", "6", "6"},
	"o": {"0", skip, skip},
	"p": {"7", "7", "7"},
	"q": {"5", "5", "5"},
	"r": {"9", "9", "9"},
	"s": {"4", "4", "4"},
	"t": {"3", "3", "3"},
	"u": {"0", skip, skip},
	"v": {"7", "7", "7"},
	"w": {"7", "7", "7"},
	"x": {"5", "54", "54"},
	"y": {"1", skip, skip},
	"z": {"4", "4", "4"},
}

// alternates carries the second reading of the ambiguous patterns; each
// doubles the branch set when it fires.
var alternates = map[string]rule{
	"rz": {"4", "4", "4"},
	"ch": {"4", "4", "4"},
	"ck": {"45", "45", "45"},
	"c":  {"4", "4", "4"},
	"j":  {"4", "4", "4"},
}

// vowels gates the "before a vowel" code column.
const vowels = "aeioujy"

// codeLen is the fixed output code length.
const codeLen = 6

// branch is one parallel reading of a part: the digits accumulated so
// far and the code last emitted (for the adjacent-duplicate rule).
type branch struct {
	code string
	last string
}

// Encode returns the space-joined Daitch–Mokotoff codes of a name.
//
// The input is folded to plain lowercase letters first; space, comma
// and slash split it into parts that are encoded independently. Every
// code is exactly six digits; duplicates are dropped across the whole
// result. An input with no encodable letters yields "".
func Encode(s string) string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range splitParts(normalize(s)) {
		for _, code := range encodePart(part) {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return strings.Join(out, " ")
}

// EncodeToArray returns the individual codes of Encode.
func EncodeToArray(s string) []string {
	joined := Encode(s)
	if joined == "" {
		return nil
	}
	return strings.Split(joined, " ")
}

// encodePart encodes one separator-free part, maintaining parallel
// branches for the alternate readings.
func encodePart(part string) []string {
	if part == "" {
		return nil
	}

	branches := []branch{{}}
	for pos := 0; pos < len(part); {
		pat, r, ok := longestMatch(part, pos)
		if !ok {
			pos++
			continue
		}

		code := pickColumn(r, part, pos, len(pat))
		alt, hasAlt := alternates[pat]

		if hasAlt {
			altCode := pickColumn(alt, part, pos, len(pat))
			next := make([]branch, 0, len(branches)*2)
			for _, b := range branches {
				next = append(next, apply(b, code), apply(b, altCode))
			}
			branches = dedupeBranches(next)
		} else {
			for i := range branches {
				branches[i] = apply(branches[i], code)
			}
		}
		pos += len(pat)
	}

	codes := make([]string, 0, len(branches))
	seen := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		code := pad(b.code)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// longestMatch finds the longest table pattern starting at pos.
func longestMatch(part string, pos int) (string, rule, bool) {
	max := maxPatternLen
	if rest := len(part) - pos; rest < max {
		max = rest
	}
	for l := max; l >= 1; l-- {
		pat := part[pos : pos+l]
		if r, ok := table[pat]; ok {
			return pat, r, true
		}
	}
	return "", rule{}, false
}

// pickColumn selects the code column for a pattern matched at pos.
func pickColumn(r rule, part string, pos, patLen int) string {
	if pos == 0 {
		return r.start
	}
	if next := pos + patLen; next < len(part) && strings.IndexByte(vowels, part[next]) >= 0 {
		return r.beforeVowel
	}
	return r.elsewhere
}

// apply folds one code into a branch. The skip sentinel resets the
// duplicate tracking without emitting; a code equal to the previous one
// is swallowed (adjacent letters coding alike are coded once).
func apply(b branch, code string) branch {
	if code == skip {
		b.last = ""
		return b
	}
	if code == b.last {
		return b
	}
	b.code += code
	b.last = code
	return b
}

func dedupeBranches(in []branch) []branch {
	out := in[:0]
	seen := make(map[branch]struct{}, len(in))
	for _, b := range in {
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// pad truncates or zero-pads a digit string to the fixed code length.
func pad(code string) string {
	if len(code) >= codeLen {
		return code[:codeLen]
	}
	return code + strings.Repeat("0", codeLen-len(code))
}

// splitParts splits the normalized input on its separator spaces.
func splitParts(s string) []string {
	return strings.Fields(s)
}
